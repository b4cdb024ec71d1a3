package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/JOHNINDAKWA/coverly/internal/app"
	"github.com/JOHNINDAKWA/coverly/internal/profile"
	"github.com/JOHNINDAKWA/coverly/pkg/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
	Long:  "Create and update the career profile your resumes and cover letters are built from",
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create your profile with an interactive prompt",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		return runProfileInit(cmd.Context(), a, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runProfileInit(ctx context.Context, a *app.App, in io.Reader, out io.Writer) error {
	existing, err := a.LoadProfile(ctx)
	if err != nil && !errors.Is(err, app.ErrNoProfile) {
		return fmt.Errorf("check for existing profile: %w", err)
	}
	if existing != nil {
		fmt.Fprintln(out, titleStyle.Render("Profile Already Exists"))
		fmt.Fprintln(out, "Use 'coverly profile show' to view or 'coverly profile edit' to update.")
		return nil
	}

	fmt.Fprintln(out, titleStyle.Render("Welcome to Coverly! Let's set up your profile."))

	reader := bufio.NewReader(in)
	p := models.NewProfile()
	p.Name = prompt(reader, out, "Full Name", "")
	p.Title = prompt(reader, out, "Headline (e.g. Software Engineer)", "")
	p.Email = prompt(reader, out, "Email", "")
	p.Phone = prompt(reader, out, "Phone (optional)", "")
	p.Location = prompt(reader, out, "Location", "")
	p.LinkedIn = prompt(reader, out, "LinkedIn URL (optional)", "")
	p.Summary = prompt(reader, out, "Summary (optional)", "")
	p.Skills = splitList(prompt(reader, out, "Skills (comma separated)", ""))

	if err := a.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	fmt.Fprintln(out, titleStyle.Render("✓ Profile created successfully!"))
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Add experience: coverly experience add --role \"Engineer\" --company \"Acme\" --start 2020-01")
	fmt.Fprintln(out, "  2. Preview a draft: coverly draft --jd \"Senior Software Engineer at Acme Corp\"")
	fmt.Fprintln(out, "  3. Build a document: coverly build --type cv --paid-with card")
	return nil
}

var showProfileCmd = &cobra.Command{
	Use:   "show",
	Short: "Display your profile information",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		p, err := a.LoadProfile(cmd.Context())
		if err != nil {
			return err
		}
		printProfile(cmd.OutOrStdout(), p)
		return nil
	},
}

func printProfile(out io.Writer, p *models.Profile) {
	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(out, "%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
		}
	}

	fmt.Fprintln(out, titleStyle.Render("Your Profile"))
	field("Name", p.Name)
	field("Headline", p.Title)
	field("Email", p.Email)
	field("Phone", p.Phone)
	field("Location", p.Location)
	field("LinkedIn", p.LinkedIn)
	field("Summary", p.Summary)

	if len(p.Skills) > 0 {
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Skills:"), strings.Join(p.Skills, ", "))
	}

	if len(p.Experience) > 0 {
		fmt.Fprintln(out, labelStyle.Render("\nExperience:"))
		for _, j := range p.Experience {
			fmt.Fprintf(out, "  • %s\n", models.JoinNonEmpty(" at ", j.Role, j.Company))
		}
	}

	if len(p.Education) > 0 {
		fmt.Fprintln(out, labelStyle.Render("\nEducation:"))
		for _, e := range p.Education {
			fmt.Fprintf(out, "  • %s\n", models.JoinNonEmpty(", ", e.Degree, e.School))
		}
	}

	if len(p.Social) > 0 {
		fmt.Fprintln(out, labelStyle.Render("\nLinks:"))
		keys := make([]string, 0, len(p.Social))
		for k := range p.Social {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "  • %s: %s\n", k, p.Social[k])
		}
	}

	counts := []string{}
	for _, c := range []struct {
		label string
		n     int
	}{
		{"achievements", len(p.Achievements)},
		{"certifications", len(p.Certifications)},
		{"references", len(p.References)},
		{"projects", len(p.Projects)},
	} {
		if c.n > 0 {
			counts = append(counts, fmt.Sprintf("%d %s", c.n, c.label))
		}
	}
	if len(counts) > 0 {
		fmt.Fprintln(out, mutedStyle.Render("\nAlso on file: "+strings.Join(counts, ", ")))
	}
}

var editProfileCmd = &cobra.Command{
	Use:   "edit",
	Short: "Interactively edit your profile",
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
		fmt.Fprintln(out, titleStyle.Render("Edit Profile"))
		fmt.Fprintln(out, "Press Enter to keep current value, or type a new value")

		reader := bufio.NewReader(cmd.InOrStdin())
		p.Name = prompt(reader, out, "Full Name", p.Name)
		p.Title = prompt(reader, out, "Headline", p.Title)
		p.Email = prompt(reader, out, "Email", p.Email)
		p.Phone = prompt(reader, out, "Phone", p.Phone)
		p.Location = prompt(reader, out, "Location", p.Location)
		p.LinkedIn = prompt(reader, out, "LinkedIn URL", p.LinkedIn)
		p.Summary = prompt(reader, out, "Summary", p.Summary)

		if err := a.SaveProfile(cmd.Context(), p); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		fmt.Fprintln(out, "\n✓ Profile updated successfully!")
		return nil
	},
}

var setProfileCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile fields",
	Example: `  coverly profile set --name "Jane Doe"
  coverly profile set --email "jane@example.com" --location "Nairobi"
  coverly profile set --social github=https://github.com/jane`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		p, err := a.LoadProfile(cmd.Context())
		if errors.Is(err, app.ErrNoProfile) {
			p, err = models.NewProfile(), nil
		}
		if err != nil {
			return err
		}

		updated := applyProfileFlags(cmd, p)
		if len(updated) == 0 {
			return fmt.Errorf("%w: no fields given, see --help", app.ErrInvalidArgument)
		}

		if err := a.SaveProfile(cmd.Context(), p); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated %s\n", strings.Join(updated, ", "))
		return nil
	},
}

// applyProfileFlags copies every changed flag onto p and returns their names
func applyProfileFlags(cmd *cobra.Command, p *models.Profile) []string {
	fields := []struct {
		flag string
		dst  *string
	}{
		{"name", &p.Name},
		{"title", &p.Title},
		{"email", &p.Email},
		{"phone", &p.Phone},
		{"location", &p.Location},
		{"linkedin", &p.LinkedIn},
		{"summary", &p.Summary},
	}

	var updated []string
	for _, f := range fields {
		if cmd.Flags().Changed(f.flag) {
			*f.dst, _ = cmd.Flags().GetString(f.flag)
			updated = append(updated, f.flag)
		}
	}

	if cmd.Flags().Changed("social") {
		social, _ := cmd.Flags().GetStringToString("social")
		if p.Social == nil {
			p.Social = map[string]string{}
		}
		for k, v := range social {
			if v == "" {
				delete(p.Social, k)
				continue
			}
			p.Social[k] = v
		}
		updated = append(updated, "social")
	}
	return updated
}

var importProfileCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace your profile with a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		p, err := profile.LoadFile(args[0])
		if err != nil {
			var serr *profile.SchemaError
			if errors.As(err, &serr) {
				printFieldErrors(cmd.ErrOrStderr(), "Profile does not match the expected shape", serr.Errors)
			}
			return err
		}

		if err := a.SaveProfile(cmd.Context(), p); err != nil {
			var verr *profile.ValidationError
			if errors.As(err, &verr) {
				printFieldErrors(cmd.ErrOrStderr(), "Profile has invalid fields", verr.Errors)
			}
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported profile for %s\n", valueStyle.Render(p.Name))
		return nil
	},
}

var exportProfileCmd = &cobra.Command{
	Use:   "export",
	Short: "Print your profile as JSON",
	Example: `  coverly profile export > profile.json
  coverly profile export --out profile.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		p, err := a.LoadProfile(cmd.Context())
		if err != nil {
			return err
		}
		data, err := profile.Marshal(p)
		if err != nil {
			return err
		}

		outPath, _ := cmd.Flags().GetString("out")
		if outPath == "" {
			_, err = cmd.OutOrStdout().Write(append(data, '\n'))
			return err
		}
		if err := os.WriteFile(outPath, data, 0600); err != nil {
			return fmt.Errorf("write %s: %w", outPath, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Profile written to %s\n", outPath)
		return nil
	},
}

func printFieldErrors(out io.Writer, heading string, errs []profile.FieldError) {
	fmt.Fprintln(out, errorStyle.Render(heading))
	for _, e := range errs {
		fmt.Fprintf(out, "  • %s: %s\n", labelStyle.Render(e.Field), e.Message)
	}
}

// prompt asks for a value; an empty answer keeps current
func prompt(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current != "" {
		fmt.Fprintf(out, "%s [%s]: ", labelStyle.Render(label), current)
	} else {
		fmt.Fprintf(out, "%s: ", labelStyle.Render(label))
	}
	line, _ := reader.ReadString('\n')
	if line = strings.TrimSpace(line); line != "" {
		return line
	}
	return current
}

// splitList turns "Go, React ,,Node" into [Go React Node]
func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(initCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(setProfileCmd)
	profileCmd.AddCommand(importProfileCmd)
	profileCmd.AddCommand(exportProfileCmd)

	setProfileCmd.Flags().String("name", "", "Full name")
	setProfileCmd.Flags().String("title", "", "Professional headline")
	setProfileCmd.Flags().String("email", "", "Email address")
	setProfileCmd.Flags().String("phone", "", "Phone number")
	setProfileCmd.Flags().String("location", "", "City, country")
	setProfileCmd.Flags().String("linkedin", "", "LinkedIn URL")
	setProfileCmd.Flags().String("summary", "", "Short professional summary")
	setProfileCmd.Flags().StringToString("social", nil, "Social links as platform=url (empty url removes)")

	exportProfileCmd.Flags().String("out", "", "Write to file instead of stdout")
}
