package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/miren-lang/miren/decl"
	"github.com/miren-lang/miren/internal/log"
	"github.com/miren-lang/miren/tyerr"
	"github.com/miren-lang/miren/types"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var CheckCmd = &cobra.Command{
	Use:          "check file.yaml",
	Short:        "Validate the declarations in a file and answer its subtype queries",
	RunE:         runCheck,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
}

var logLevel *int

func init() {
	logLevel = CheckCmd.Flags().IntP("log-level", "l", int(slog.LevelError), "log level")
}

func runCheck(cobraCmd *cobra.Command, args []string) error {
	log.LoggerOpts.Level = slog.Level(*logLevel)

	file, err := decl.Load(args[0])
	if err != nil {
		return err
	}
	decls, err := file.Declarations()
	if err != nil {
		return err
	}

	registry := types.NewRegistry()
	var diagnostics []tyerr.TypeError
	for _, d := range decls {
		if err := registry.Register(d); err != nil {
			var typeErr tyerr.TypeError
			if errors.As(err, &typeErr) {
				diagnostics = append(diagnostics, typeErr)
				continue
			}
			return err
		}
	}
	diagnostics = append(diagnostics, registry.Freeze()...)
	if len(diagnostics) != 0 {
		return errors.New(formatDiagnostics(diagnostics))
	}

	validator, err := types.NewValidator(registry)
	if err != nil {
		return err
	}
	violations, err := validator.ValidateAll()
	if err != nil {
		return err
	}
	if len(violations) != 0 {
		return errors.New(formatDiagnostics(violations))
	}
	fmt.Printf("%d declarations checked\n", len(decls))

	checker, err := types.NewChecker(registry)
	if err != nil {
		return err
	}
	for _, query := range file.Queries {
		sub, super, err := query.Types()
		if err != nil {
			return errors.Wrapf(err, "in query '%s <: %s'", query.Sub, query.Super)
		}
		for _, t := range []types.Type{sub, super} {
			boundErrs, err := checker.CheckBounds(t)
			if err != nil {
				return errors.Wrapf(err, "in query '%s <: %s'", query.Sub, query.Super)
			}
			for _, boundErr := range boundErrs {
				fmt.Printf("warning: %s\n", tyerr.FormatWithCode(boundErr))
			}
		}
		result, err := checker.IsSubtype(sub, super)
		if err != nil {
			return errors.Wrapf(err, "in query '%s <: %s'", query.Sub, query.Super)
		}
		fmt.Printf("%s <: %s = %v\n", sub, super, result)
	}
	return nil
}

func formatDiagnostics(diagnostics []tyerr.TypeError) string {
	sb := &strings.Builder{}
	sb.WriteString("problems found:")
	for _, diagnostic := range diagnostics {
		sb.WriteString("\n")
		sb.WriteString(tyerr.FormatWithCode(diagnostic))
	}
	return sb.String()
}
