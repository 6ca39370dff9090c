package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vkshell/vkshell/internal/registry"
	"github.com/vkshell/vkshell/internal/store"
	"github.com/vkshell/vkshell/pkg/power"
)

var (
	areaToolMeta = registry.Meta{
		ID:              "areaTool",
		Title:           "ТопоПлан",
		Icon:            registry.IconMap,
		Size:            registry.SizeMedium,
		Description:     "Загрузка и разбор контуров, отображение, расчёт площади и экспорт CSV.",
		DepartmentID:    "res",
		DepartmentTitle: "РЭС",
	}
	centerToolMeta = registry.Meta{
		ID:              "centertp",
		Title:           "Центр нагрузок",
		Icon:            registry.IconTarget,
		Size:            registry.SizeLarge,
		Description:     "Центр электрических нагрузок по участкам, круги мощности и экспорт DXF.",
		DepartmentID:    "res",
		DepartmentTitle: "РЭС",
	}
	powerCalcMeta = registry.Meta{
		ID:          "examplePowerCalc",
		Title:       "Калькулятор мощности",
		Icon:        registry.IconCalculator,
		Size:        registry.SizeSmall,
		Description: "S, P и Q по напряжению, току и cos φ.",
	}
)

var errNeedsFile = errors.New("this app needs an input file")

var appsCmd = &cobra.Command{
	Use:   "apps",
	Short: "App launcher",
	Long: `List and open the registered apps. Recently opened apps and favorites
are kept in the store configured under "store" in the config file.`,
}

var appsListCmd = &cobra.Command{
	Use:   "list [department]",
	Short: "List apps, optionally of one department",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAppsList,
}

var appsDepartmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List departments",
	Args:  cobra.NoArgs,
	RunE:  runAppsDepartments,
}

var appsOpenCmd = &cobra.Command{
	Use:   "open <app_id> [file|args...]",
	Short: "Open an app",
	Long: `Open an app and record it as recently used.

  vks apps open areaTool plot.txt
  vks apps open centertp objects.txt
  vks apps open examplePowerCalc 380 25 0,9`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAppsOpen,
}

var appsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recently opened apps",
	Args:  cobra.NoArgs,
	RunE:  runAppsRecent,
}

var appsFavCmd = &cobra.Command{
	Use:   "fav [app_id]",
	Short: "Toggle a favorite, or list favorites",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAppsFav,
}

var appsThemeCmd = &cobra.Command{
	Use:   "theme [light|dark]",
	Short: "Show or set the launcher theme",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAppsTheme,
}

func init() {
	rootCmd.AddCommand(appsCmd)
	appsCmd.AddCommand(appsListCmd, appsDepartmentsCmd, appsOpenCmd, appsRecentCmd, appsFavCmd, appsThemeCmd)
}

// newRegistry registers the built-in apps. args are passed to the app that
// is opened.
func newRegistry(cmd *cobra.Command, args []string) *registry.Registry {
	reg := registry.New(logger)
	reg.MustRegister(
		registry.Entry{
			Meta: areaToolMeta,
			Open: func() (registry.Tool, error) {
				if len(args) == 0 {
					return nil, errNeedsFile
				}
				return registry.ToolFunc(func(context.Context) error {
					return openAreaViewer(cmd, args[0])
				}), nil
			},
		},
		registry.Entry{
			Meta: centerToolMeta,
			Open: func() (registry.Tool, error) {
				if len(args) == 0 {
					return nil, errNeedsFile
				}
				return registry.ToolFunc(func(context.Context) error {
					return openCenterViewer(cmd, args[0])
				}), nil
			},
		},
		registry.Entry{
			Meta: powerCalcMeta,
			Open: func() (registry.Tool, error) {
				vals := []float64{220, 10, 0.95}
				if len(args) > 0 {
					v, err := parseArgs(args)
					if err != nil {
						return nil, err
					}
					if len(v) != 3 {
						return nil, fmt.Errorf("want U I cos φ, got %d values", len(v))
					}
					vals = v
				}
				return registry.ToolFunc(func(context.Context) error {
					tri, err := power.Solve(vals[0], vals[1], vals[2])
					if err != nil {
						return err
					}
					writeTriangle(cmd.OutOrStdout(), tri)
					return nil
				}), nil
			},
		},
	)
	return reg
}

// openShell opens the configured store. The caller closes it.
func openShell(cmd *cobra.Command, args []string) (*registry.Shell, store.Store, error) {
	st, err := store.Open(cfg.Store.Backend, cfg.Store.Path)
	if err != nil {
		return nil, nil, err
	}
	return registry.NewShell(newRegistry(cmd, args), st, logger), st, nil
}

func runAppsList(cmd *cobra.Command, args []string) error {
	sh, st, err := openShell(cmd, nil)
	if err != nil {
		return err
	}
	defer st.Close()

	apps := sh.Registry().Apps()
	if len(args) == 1 {
		apps = sh.Registry().ByDepartment(args[0])
	}
	out := cmd.OutOrStdout()
	for _, m := range apps {
		star := " "
		if sh.IsFavorite(m.ID) {
			star = "★"
		}
		fmt.Fprintf(out, "%s %-18s %-22s %-10s %-7s %s\n", star, m.ID, m.Title, m.Icon, m.Size, m.Department().Title)
		if m.Description != "" {
			fmt.Fprintf(out, "  %s\n", m.Description)
		}
	}
	return nil
}

func runAppsDepartments(cmd *cobra.Command, args []string) error {
	reg := newRegistry(cmd, nil)
	for _, d := range reg.Departments() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-10s %-12s %d apps\n", d.ID, d.Title, len(reg.ByDepartment(d.ID)))
	}
	return nil
}

func runAppsOpen(cmd *cobra.Command, args []string) error {
	sh, st, err := openShell(cmd, args[1:])
	if err != nil {
		return err
	}
	defer st.Close()
	return sh.Launch(cmd.Context(), args[0])
}

func runAppsRecent(cmd *cobra.Command, args []string) error {
	sh, st, err := openShell(cmd, nil)
	if err != nil {
		return err
	}
	defer st.Close()

	for i, id := range sh.Recents() {
		title := id
		if m, ok := sh.Registry().Lookup(id); ok {
			title = m.Title
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%2d. %-18s %s\n", i+1, id, title)
	}
	return nil
}

func runAppsFav(cmd *cobra.Command, args []string) error {
	sh, st, err := openShell(cmd, nil)
	if err != nil {
		return err
	}
	defer st.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		for _, id := range sh.Favorites() {
			fmt.Fprintln(out, id)
		}
		return nil
	}
	if _, ok := sh.Registry().Lookup(args[0]); !ok {
		return fmt.Errorf("%w: %s", registry.ErrNotFound, args[0])
	}
	on, err := sh.ToggleFavorite(args[0])
	if err != nil {
		return err
	}
	if on {
		fmt.Fprintf(out, "★ %s added to favorites\n", args[0])
	} else {
		fmt.Fprintf(out, "%s removed from favorites\n", args[0])
	}
	return nil
}

func runAppsTheme(cmd *cobra.Command, args []string) error {
	sh, st, err := openShell(cmd, nil)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 1 {
		switch args[0] {
		case "dark", "light":
			if err := sh.SetDark(args[0] == "dark"); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown theme %q", args[0])
		}
	}
	theme := "light"
	if sh.Dark() {
		theme = "dark"
	}
	fmt.Fprintln(cmd.OutOrStdout(), theme)
	return nil
}
