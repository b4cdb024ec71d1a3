package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JOHNINDAKWA/coverly/internal/app"
	"github.com/JOHNINDAKWA/coverly/pkg/models"
	"github.com/spf13/cobra"
)

// editProfile loads the profile, applies fn and saves the result. fn returns
// the confirmation line to print.
func editProfile(cmd *cobra.Command, fn func(p *models.Profile) (string, error)) error {
	a, err := appFrom(cmd)
	if err != nil {
		return err
	}
	p, err := a.LoadProfile(cmd.Context())
	if err != nil {
		return err
	}

	msg, err := fn(p)
	if err != nil {
		return err
	}
	if err := a.SaveProfile(cmd.Context(), p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

// parseIndex converts a 1-based position into a slice index
func parseIndex(arg string, n int) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", app.ErrInvalidArgument, arg)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("%w: no entry #%d (have %d)", app.ErrNotFound, i, n)
	}
	return i - 1, nil
}

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage your skills",
	Long:  "Add, list, and remove skills from your profile",
}

var addSkillCmd = &cobra.Command{
	Use:   "add <skill>...",
	Short: "Add one or more skills",
	Args:  cobra.MinimumNArgs(1),
	Example: `  coverly skill add Go
  coverly skill add "React" "Node.js" Kubernetes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProfile(cmd, func(p *models.Profile) (string, error) {
			p.Skills = append(p.Skills, args...)
			return fmt.Sprintf("✓ Added skill: %s", strings.Join(args, ", ")), nil
		})
	},
}

var listSkillsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		p, err := a.LoadProfile(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(p.Skills) == 0 {
			fmt.Fprintln(out, "No skills found. Add skills with 'coverly skill add <skill>'")
			return nil
		}
		fmt.Fprintln(out, titleStyle.Render("Your Skills"))
		for i, s := range p.Skills {
			fmt.Fprintf(out, "%d. %s\n", i+1, s)
		}
		return nil
	},
}

var removeSkillCmd = &cobra.Command{
	Use:   "remove <skill>",
	Short: "Remove a skill by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProfile(cmd, func(p *models.Profile) (string, error) {
			kept, removed := removeSkill(p.Skills, args[0])
			if !removed {
				return "", fmt.Errorf("%w: skill %q", app.ErrNotFound, args[0])
			}
			p.Skills = kept
			return fmt.Sprintf("✓ Removed skill: %s", args[0]), nil
		})
	},
}

// removeSkill drops every case-insensitive match of name
func removeSkill(skills []string, name string) ([]string, bool) {
	name = strings.TrimSpace(name)
	kept := make([]string, 0, len(skills))
	for _, s := range skills {
		if strings.EqualFold(s, name) {
			continue
		}
		kept = append(kept, s)
	}
	return kept, len(kept) != len(skills)
}

var experienceCmd = &cobra.Command{
	Use:   "experience",
	Short: "Manage your work experience",
	Long:  "Add, list, and remove work experience entries",
}

var addExperienceCmd = &cobra.Command{
	Use:   "add",
	Short: "Add work experience",
	Example: `  coverly experience add --role "Software Engineer" --company "Acme Inc" --start 2020-01
  coverly experience add --role "Intern" --company "Initech" --start 2018-06 --end 2018-09 \
      --bullet "Built the billing dashboard" --bullet "Cut CI time by 40%"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		job := models.Job{}
		job.Role, _ = cmd.Flags().GetString("role")
		job.Company, _ = cmd.Flags().GetString("company")
		job.City, _ = cmd.Flags().GetString("city")
		job.Start, _ = cmd.Flags().GetString("start")
		job.End, _ = cmd.Flags().GetString("end")
		job.Bullets, _ = cmd.Flags().GetStringArray("bullet")

		if job.Role == "" && job.Company == "" {
			return fmt.Errorf("%w: --role or --company is required", app.ErrInvalidArgument)
		}
		if strings.EqualFold(job.End, models.Present) {
			job.End = models.Present
		}

		return editProfile(cmd, func(p *models.Profile) (string, error) {
			p.Experience = append(p.Experience, job)
			return fmt.Sprintf("✓ Added experience: %s", models.JoinNonEmpty(" at ", job.Role, job.Company)), nil
		})
	},
}

var listExperienceCmd = &cobra.Command{
	Use:   "list",
	Short: "List all work experience",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		p, err := a.LoadProfile(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(p.Experience) == 0 {
			fmt.Fprintln(out, "No experience found. Add experience with 'coverly experience add'")
			return nil
		}

		fmt.Fprintln(out, titleStyle.Render("Your Work Experience"))
		for i, j := range p.Experience {
			fmt.Fprintf(out, "\n%d. %s\n", i+1, models.JoinNonEmpty(" at ", j.Role, j.Company))
			if dates := models.JoinNonEmpty(" - ", j.Start, j.End); dates != "" {
				fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("Dates:"), dates)
			}
			if j.City != "" {
				fmt.Fprintf(out, "   %s %s\n", labelStyle.Render("City:"), j.City)
			}
			for _, b := range j.Bullets {
				fmt.Fprintf(out, "   - %s\n", b)
			}
		}
		return nil
	},
}

var removeExperienceCmd = &cobra.Command{
	Use:   "remove <number>",
	Short: "Remove work experience by its list number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProfile(cmd, func(p *models.Profile) (string, error) {
			i, err := parseIndex(args[0], len(p.Experience))
			if err != nil {
				return "", err
			}
			j := p.Experience[i]
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return fmt.Sprintf("✓ Removed experience: %s", models.JoinNonEmpty(" at ", j.Role, j.Company)), nil
		})
	},
}

var educationCmd = &cobra.Command{
	Use:   "education",
	Short: "Manage your education",
}

var addEducationCmd = &cobra.Command{
	Use:     "add",
	Short:   "Add an education entry",
	Example: `  coverly education add --school "University of Nairobi" --degree BSc --field "Computer Science" --start 2014 --end 2018`,
	RunE: func(cmd *cobra.Command, args []string) error {
		edu := models.Education{}
		edu.School, _ = cmd.Flags().GetString("school")
		edu.Degree, _ = cmd.Flags().GetString("degree")
		edu.Field, _ = cmd.Flags().GetString("field")
		edu.StartYear, _ = cmd.Flags().GetString("start")
		edu.EndYear, _ = cmd.Flags().GetString("end")

		if edu.IsEmpty() {
			return fmt.Errorf("%w: --school, --degree or --field is required", app.ErrInvalidArgument)
		}

		return editProfile(cmd, func(p *models.Profile) (string, error) {
			p.Education = append(p.Education, edu)
			return fmt.Sprintf("✓ Added education: %s", models.JoinNonEmpty(", ", edu.Degree, edu.School)), nil
		})
	},
}

var listEducationCmd = &cobra.Command{
	Use:   "list",
	Short: "List education entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		p, err := a.LoadProfile(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(p.Education) == 0 {
			fmt.Fprintln(out, "No education found. Add an entry with 'coverly education add'")
			return nil
		}
		fmt.Fprintln(out, titleStyle.Render("Your Education"))
		for i, e := range p.Education {
			fmt.Fprintf(out, "%d. %s", i+1, models.JoinNonEmpty(", ", models.JoinNonEmpty(" in ", e.Degree, e.Field), e.School))
			if years := models.JoinNonEmpty(" - ", e.StartYear, e.EndYear); years != "" {
				fmt.Fprintf(out, " %s", mutedStyle.Render("("+years+")"))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var removeEducationCmd = &cobra.Command{
	Use:   "remove <number>",
	Short: "Remove an education entry by its list number",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return editProfile(cmd, func(p *models.Profile) (string, error) {
			i, err := parseIndex(args[0], len(p.Education))
			if err != nil {
				return "", err
			}
			e := p.Education[i]
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return fmt.Sprintf("✓ Removed education: %s", models.JoinNonEmpty(", ", e.Degree, e.School)), nil
		})
	},
}

func init() {
	rootCmd.AddCommand(skillCmd)
	skillCmd.AddCommand(addSkillCmd)
	skillCmd.AddCommand(listSkillsCmd)
	skillCmd.AddCommand(removeSkillCmd)

	rootCmd.AddCommand(experienceCmd)
	experienceCmd.AddCommand(addExperienceCmd)
	experienceCmd.AddCommand(listExperienceCmd)
	experienceCmd.AddCommand(removeExperienceCmd)

	addExperienceCmd.Flags().String("role", "", "Job title")
	addExperienceCmd.Flags().String("company", "", "Company name")
	addExperienceCmd.Flags().String("city", "", "City")
	addExperienceCmd.Flags().String("start", "", "Start month (YYYY-MM)")
	addExperienceCmd.Flags().String("end", "", "End month (YYYY-MM or Present)")
	addExperienceCmd.Flags().StringArray("bullet", nil, "Accomplishment bullet (repeatable)")

	rootCmd.AddCommand(educationCmd)
	educationCmd.AddCommand(addEducationCmd)
	educationCmd.AddCommand(listEducationCmd)
	educationCmd.AddCommand(removeEducationCmd)

	addEducationCmd.Flags().String("school", "", "School name")
	addEducationCmd.Flags().String("degree", "", "Degree")
	addEducationCmd.Flags().String("field", "", "Field of study")
	addEducationCmd.Flags().String("start", "", "Start year")
	addEducationCmd.Flags().String("end", "", "End year")
}
