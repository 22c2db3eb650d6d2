package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/scttee/elibilitychecker/internal/entitlement"
	"github.com/scttee/elibilitychecker/internal/registry"
	"github.com/scttee/elibilitychecker/internal/rules"
	"github.com/scttee/elibilitychecker/internal/zones"
)

func newSearchCmd(opts *options) *cobra.Command {
	var (
		source string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the location registers",
		Long: `Search matches the query as a literal, case-insensitive substring of each
record's business name, street address, suburb and postcode.

Sources: all, street, business, suburb. The suburb source reads the query as
"street, suburb" and answers from the suburb directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			reg := bundle.Registry
			var results []registry.Record
			switch source {
			case "all":
				results = reg.Search(args[0], limit)
			case "street":
				results = reg.SearchStreets(args[0], limit)
			case "business":
				results = reg.SearchBusinesses(args[0], limit)
			case "suburb":
				results = reg.Suburbs().Search(args[0], limit)
			default:
				return fmt.Errorf("unknown source %q", source)
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}
	cmd.Flags().StringVarP(&source, "source", "s", "all", "register to search")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum results (0 uses the register default)")
	return cmd
}

func newEvaluateCmd(opts *options) *cobra.Command {
	var (
		answerFile string
		answers    map[string]string
		recordID   string
		allowGaps  bool
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Recommend an approval pathway for a set of answers",
		Long: `Evaluate reads answers from --file (JSON or YAML) and --answer key=value
pairs, which take precedence. With --record, the location answers are prefilled
from that registry record unless answered explicitly.`,
		Example: `  checker evaluate --answer hasExistingApproval=no --answer locationType=footpath \
    --answer servingAlcohol=no --answer needClearanceHelp=no --record loc-009`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}

			var resp rules.Responses
			if answerFile != "" {
				if resp, err = readAnswers(answerFile); err != nil {
					return err
				}
			}
			for key, value := range answers {
				q, err := rules.ParseQuestion(key)
				if err != nil {
					return err
				}
				resp.Set(q, rules.Answer(strings.TrimSpace(value)))
			}
			if recordID != "" {
				record, ok := bundle.Registry.Lookup(recordID)
				if !ok {
					return fmt.Errorf("record %s not found", recordID)
				}
				resp = entitlement.Prefill(record).Merge(resp)
			}
			if err := resp.Validate(); err != nil {
				return err
			}
			if missing := rules.Missing(resp); len(missing) > 0 && !allowGaps {
				names := make([]string, 0, len(missing))
				for _, q := range missing {
					names = append(names, string(q))
				}
				return fmt.Errorf("unanswered questions: %s", strings.Join(names, ", "))
			}
			return writeJSON(cmd.OutOrStdout(), rules.Evaluate(resp, bundle.Rules))
		},
	}
	cmd.Flags().StringVarP(&answerFile, "file", "f", "", "answers document")
	cmd.Flags().StringToStringVarP(&answers, "answer", "a", nil, "answer as question=value (repeatable)")
	cmd.Flags().StringVar(&recordID, "record", "", "registry record to prefill location answers from")
	cmd.Flags().BoolVar(&allowGaps, "allow-missing", false, "evaluate even when required questions are unanswered")
	return cmd
}

func readAnswers(path string) (rules.Responses, error) {
	var resp rules.Responses
	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return resp, fmt.Errorf("read answers: %w", err)
	}
	if zones.FormatForPath(path) == "yaml" {
		err = yaml.Unmarshal(raw, &resp)
	} else {
		err = json.Unmarshal(raw, &resp)
	}
	if err != nil {
		return resp, fmt.Errorf("decode answers: %w", err)
	}
	return resp, nil
}

// EstimateOutput is what the estimate command prints.
type EstimateOutput struct {
	Record     registry.Record      `json:"record"`
	Estimate   entitlement.Estimate `json:"estimate"`
	SourceNote string               `json:"sourceNote"`
}

func newEstimateCmd(opts *options) *cobra.Command {
	var zone string
	cmd := &cobra.Command{
		Use:   "estimate [record-id]",
		Short: "Show what a location's footpath zone typically allows",
		Args: func(cmd *cobra.Command, args []string) error {
			if zone == "" {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.NoArgs(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			var record registry.Record
			if zone != "" {
				z, err := zones.ParseZone(zone)
				if err != nil {
					return err
				}
				record = registry.Record{FootpathZone: z}
			} else {
				var ok bool
				if record, ok = bundle.Registry.Lookup(args[0]); !ok {
					return fmt.Errorf("record %s not found", args[0])
				}
			}
			return writeJSON(cmd.OutOrStdout(), EstimateOutput{
				Record:     record,
				Estimate:   bundle.Estimator.Estimate(record),
				SourceNote: bundle.Estimator.SourceNote(),
			})
		},
	}
	cmd.Flags().StringVar(&zone, "zone", "", "estimate a zone directly instead of a record")
	return cmd
}

func newCoverageCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "coverage",
		Short: "Summarize the loaded registers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), bundle.Registry.Coverage())
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load every document and report problems",
		Long: `Validate loads the rule, guidance and register documents exactly as the
server would and fails on the first error. Tolerated problems, such as a rule
naming an undefined pathway, are reported as warnings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bundle, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, key := range bundle.Rules.UndefinedPathways() {
				fmt.Fprintf(out, "warning: pathway %q has no label\n", key)
			}
			if !bundle.Rules.HasUnconditionalRule() {
				fmt.Fprintln(out, "warning: no unconditional rule; unmatched answers fall back to new_application")
			}
			fmt.Fprintf(out, "ok: %d rules, %d records, %d directory suburbs\n",
				len(bundle.Rules.Rules), bundle.Registry.Len(), bundle.Registry.Suburbs().Len())
			return nil
		},
	}
}
