package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okravets/rozklad/internal/api"
	"github.com/okravets/rozklad/internal/config"
	"github.com/okravets/rozklad/internal/settings"
	"github.com/okravets/rozklad/internal/store"
)

var (
	flagRole       string
	flagID         int
	flagName       string
	flagFaculty    int
	flagDepartment int
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Select whose schedule to follow",
	Long: `Pick the group or instructor whose schedule the TUI opens with.

Browse the directories first, then save a selection:

  rozklad setup faculties
  rozklad setup groups --faculty 3
  rozklad setup --role student --id 142 --name "КН-21"

Instructors go through their department:

  rozklad setup departments --faculty 3
  rozklad setup instructors --department 12
  rozklad setup --role teacher --id 57 --name "Іваненко І.І."`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().StringVar(&flagRole, "role", "", `"student" or "teacher"`)
	setupCmd.Flags().IntVar(&flagID, "id", 0, "group or instructor id")
	setupCmd.Flags().StringVar(&flagName, "name", "", "display name for the selection")
	setupCmd.Flags().IntVar(&flagFaculty, "faculty", 0, "faculty id the selection belongs to")
	setupCmd.Flags().IntVar(&flagDepartment, "department", 0, "department id the selection belongs to")

	groupsCmd.Flags().IntVar(&flagFaculty, "faculty", 0, "faculty id to list groups of")
	departmentsCmd.Flags().IntVar(&flagFaculty, "faculty", 0, "faculty id to list departments of")
	instructorsCmd.Flags().IntVar(&flagDepartment, "department", 0, "department id to list instructors of")

	setupCmd.AddCommand(facultiesCmd)
	setupCmd.AddCommand(groupsCmd)
	setupCmd.AddCommand(departmentsCmd)
	setupCmd.AddCommand(instructorsCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	if flagRole == "" || flagID == 0 {
		return cmd.Help()
	}

	s := &settings.Settings{
		UserRole:     flagRole,
		SelectedID:   flagID,
		DisplayName:  flagName,
		FacultyID:    flagFaculty,
		DepartmentID: flagDepartment,
	}
	if err := settings.Save(config.SettingsPath(), s); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	label := s.DisplayName
	if label == "" {
		label = fmt.Sprintf("%s %d", s.UserRole, s.SelectedID)
	}
	fmt.Printf("Following %s. Run `rozklad` to open the schedule.\n", label)
	return nil
}

var facultiesCmd = &cobra.Command{
	Use:   "faculties",
	Short: "List faculties",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *api.Client) error {
			faculties, err := client.Faculties(ctx, api.Options{})
			if err != nil {
				return err
			}
			for _, f := range faculties {
				fmt.Printf("%4d  %s\n", f.ID, f.Name)
			}
			return nil
		})
	},
}

var groupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List student groups of a faculty",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagFaculty == 0 {
			return fmt.Errorf("--faculty is required (see `rozklad setup faculties`)")
		}
		return withClient(func(ctx context.Context, client *api.Client) error {
			groups, err := client.Groups(ctx, flagFaculty, api.Options{})
			if err != nil {
				return err
			}
			for _, g := range groups {
				fmt.Printf("%4d  %s\n", g.ID, g.Name)
			}
			return nil
		})
	},
}

var departmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List departments of a faculty",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagFaculty == 0 {
			return fmt.Errorf("--faculty is required (see `rozklad setup faculties`)")
		}
		return withClient(func(ctx context.Context, client *api.Client) error {
			departments, err := client.Departments(ctx, flagFaculty, api.Options{})
			if err != nil {
				return err
			}
			for _, d := range departments {
				fmt.Printf("%4d  %s\n", d.ID, d.Name)
			}
			return nil
		})
	},
}

var instructorsCmd = &cobra.Command{
	Use:   "instructors",
	Short: "List instructors of a department",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagDepartment == 0 {
			return fmt.Errorf("--department is required (see `rozklad setup departments`)")
		}
		return withClient(func(ctx context.Context, client *api.Client) error {
			instructors, err := client.Instructors(ctx, flagDepartment, api.Options{})
			if err != nil {
				return err
			}
			for _, i := range instructors {
				fmt.Printf("%4d  %s\n", i.ID, i.Name)
			}
			return nil
		})
	},
}

// withClient builds a fully wired API client and runs fn with a deadline
// generous enough for one directory request.
func withClient(fn func(ctx context.Context, client *api.Client) error) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cache, closeCache, err := openCache()
	if err != nil {
		return err
	}
	defer closeCache()

	client := api.NewClient(cfg, cache, store.NewResolver(cfg))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.APITimeout()*2)
	defer cancel()
	return fn(ctx, client)
}
