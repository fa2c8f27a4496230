package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/dotlife/pkg/config"
	"github.com/arthur-debert/dotlife/pkg/engine"
	"github.com/arthur-debert/dotlife/pkg/errors"
	"github.com/arthur-debert/dotlife/pkg/filesystem"
	"github.com/arthur-debert/dotlife/pkg/git"
	"github.com/arthur-debert/dotlife/pkg/github"
	"github.com/arthur-debert/dotlife/pkg/life"
	"github.com/arthur-debert/dotlife/pkg/paths"
	"github.com/arthur-debert/dotlife/pkg/prompt"
	"github.com/arthur-debert/dotlife/pkg/types"
)

var pullKeep []string

func init() {
	pullCmd.Flags().StringArrayVar(&pullKeep, "keep", nil,
		"Tracked path to keep untouched during this pull (repeatable)")
}

// newEngine wires the real collaborators together for one invocation.
// owner may be empty when the settings carry one.
func newEngine(owner string) (*engine.Engine, *config.Settings, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if owner == "" {
		owner = settings.Remote.Owner
	}

	env, err := paths.NewEnvironment("", settings.Repo.Dir, settings.Manifest.Name,
		types.Owner(owner), types.Repo(settings.Repo.Dir))
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(engine.Options{
		FS:             filesystem.NewOS(),
		Env:            env,
		Git:            git.NewShellClient(env.RepoDir),
		Host:           github.NewClient(settings.Github.API, settings.Github.Token),
		Prompter:       prompt.NewTerminal(),
		RemoteHostName: settings.Remote.Host,
		DefaultBranch:  settings.Repo.Branch,
	})
	return eng, settings, nil
}

var initCmd = &cobra.Command{
	Use:   "init <owner>",
	Short: "Bootstrap a new configuration repository for the given account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine(args[0])
		if err != nil {
			return err
		}

		result, err := eng.Init(cmd.Context())
		if err != nil {
			return err
		}
		if result.AlreadyInitialized {
			pterm.Info.Println("Already initialized, nothing to do")
			return nil
		}
		pterm.Success.Printfln("Configuration repository created, tracking branch %s", result.Branch)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Track a file or directory and push it to the repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine("")
		if err != nil {
			return err
		}

		result, err := eng.Add(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if result.AlreadyLatest {
			pterm.Info.Printfln("%s is already latest", result.Path)
			return nil
		}
		pterm.Success.Printfln("Added %s %s", result.Kind, result.Path)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Stop tracking a path and delete it from the repository",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine("")
		if err != nil {
			return err
		}

		result, err := eng.Remove(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		switch {
		case result.AlreadyRemoved:
			pterm.Info.Printfln("%s was not tracked, nothing to do", result.Path)
		case result.MissingInRepo:
			pterm.Warning.Printfln("%s was already gone from the repository, manifest updated", result.Path)
		default:
			pterm.Success.Printfln("Removed %s", result.Path)
		}
		return nil
	},
}

var pullCmd = &cobra.Command{
	Use:   "pull [owner]",
	Short: "Refresh tracked files from the remote repository",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner := ""
		if len(args) == 1 {
			owner = args[0]
		}
		eng, settings, err := newEngine(owner)
		if err != nil {
			return err
		}

		exclude, err := keepConfig(settings)
		if err != nil {
			return err
		}

		result, err := eng.Pull(cmd.Context(), exclude)
		if err != nil {
			return err
		}
		if result.Initialized {
			pterm.Success.Println("Initialized a fresh configuration repository")
			return nil
		}
		msg := fmt.Sprintf("Pulled branch %s: %d file(s), %d directorie(s)",
			result.Branch, result.CopiedFiles, result.CopiedDirectories)
		if result.ExcludedPaths > 0 {
			msg += fmt.Sprintf(", %d path(s) kept untouched", result.ExcludedPaths)
		}
		pterm.Success.Println(msg)
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Publish local changes to tracked files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine("")
		if err != nil {
			return err
		}

		result, err := eng.Push(cmd.Context())
		if err != nil {
			return err
		}
		if result.UpToDate {
			pterm.Info.Println("Already up to date")
			return nil
		}
		pterm.Success.Printfln("Pushed tracked files on branch %s", result.Branch)
		return nil
	},
}

// keepConfig builds the pull exclusion set from the --keep flags
func keepConfig(settings *config.Settings) (*life.Config, error) {
	cfg := life.New(settings.Repo.Branch)
	if len(pullKeep) == 0 {
		return cfg, nil
	}

	fs := filesystem.NewOS()
	env, err := paths.NewEnvironment("", settings.Repo.Dir, settings.Manifest.Name, "", "")
	if err != nil {
		return nil, err
	}

	for _, raw := range pullKeep {
		rel, err := env.Resolve(raw)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "bad --keep path %q", raw)
		}
		kind, err := env.Classify(fs, rel)
		if err != nil {
			// a kept path that no longer exists locally still masks
			// the repository copy of a tracked file
			kind = types.PathFile
		}
		cfg = life.Insert(cfg, rel, kind)
	}
	return cfg, nil
}
