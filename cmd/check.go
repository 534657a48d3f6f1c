package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/domready/internal/config"
	"github.com/xkilldash9x/domready/internal/observability"
	"github.com/xkilldash9x/domready/pkg/actionability"
	"github.com/xkilldash9x/domready/pkg/aria"
	"github.com/xkilldash9x/domready/pkg/browser"
	"github.com/xkilldash9x/domready/pkg/dom"
	"github.com/xkilldash9x/domready/pkg/memdom"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const shutdownGracePeriod = 15 * time.Second

// checkReport is the JSON document the check command emits.
type checkReport struct {
	Target  string           `json:"target"`
	Results []selectorReport `json:"results"`
}

type selectorReport struct {
	Selector  string           `json:"selector"`
	Error     string           `json:"error,omitempty"`
	States    *statesReport    `json:"states,omitempty"`
	Readiness *readinessReport `json:"readiness,omitempty"`
	Facts     *structuralFacts `json:"facts,omitempty"`
}

type statesReport struct {
	Matches  bool   `json:"matches"`
	Missing  string `json:"missing,omitempty"`
	Received string `json:"received,omitempty"`
}

type readinessReport struct {
	State string     `json:"state"`
	Point *dom.Point `json:"point,omitempty"`
}

// structuralFacts is what offline HTML mode can determine without layout: a
// parsed tree carries roles and disabled semantics but no geometry.
type structuralFacts struct {
	Tag              string `json:"tag"`
	Role             string `json:"role"`
	Focusable        bool   `json:"focusable"`
	NativelyDisabled bool   `json:"natively_disabled"`
	AriaDisabled     bool   `json:"aria_disabled"`
	ReadOnlyRole     bool   `json:"readonly_role"`
}

func newCheckCommand(state *rootState) *cobra.Command {
	var (
		url         string
		htmlFile    string
		selectors   []string
		states      []string
		interaction string
		doWait      bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check element states and interaction readiness on a page.",
		Long: `Check resolves each selector on the target page and reports element
states, interaction readiness, or both. With --html it inspects a local
file offline and reports the structural facts a parsed tree can carry.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := state.cfg
			cc := config.CheckConfig{
				URL:         url,
				HTMLFile:    htmlFile,
				Selectors:   selectors,
				States:      states,
				Interaction: interaction,
				Wait:        doWait,
				Timeout:     timeout,
			}
			if err := validateCheck(cc); err != nil {
				return err
			}
			cfg.SetCheckConfig(cc)

			if cc.HTMLFile != "" {
				return runOfflineCheck(cmd, cfg)
			}
			return runBrowserCheck(cmd.Context(), cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&url, "url", "", "page URL to check")
	cmd.Flags().StringVar(&htmlFile, "html", "", "local HTML file to inspect offline")
	cmd.Flags().StringSliceVarP(&selectors, "selector", "s", nil, "CSS selector to check (repeatable)")
	cmd.Flags().StringSliceVar(&states, "state", nil, "element state to require (visible, hidden, enabled, disabled, editable, inview, stable)")
	cmd.Flags().StringVar(&interaction, "interaction", "", "interaction to check readiness for (click, type, hover, ...)")
	cmd.Flags().BoolVar(&doWait, "wait", false, "poll until the element is ready or the timeout elapses")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "readiness wait budget (default from config)")
	return cmd
}

func validateCheck(cc config.CheckConfig) error {
	if (cc.URL == "") == (cc.HTMLFile == "") {
		return fmt.Errorf("exactly one of --url or --html is required")
	}
	if len(cc.Selectors) == 0 {
		return fmt.Errorf("at least one --selector is required")
	}
	for _, s := range cc.States {
		if !dom.State(s).Queryable() {
			return fmt.Errorf("unrecognized element state %q", s)
		}
	}
	if cc.Interaction != "" {
		if _, ok := actionability.RequiredStates(actionability.Interaction(cc.Interaction)); !ok {
			return fmt.Errorf("unrecognized interaction %q", cc.Interaction)
		}
	}
	if cc.HTMLFile != "" && (cc.Interaction != "" || cc.Wait) {
		return fmt.Errorf("--interaction and --wait need a live page; use --url")
	}
	return nil
}

// runBrowserCheck drives a live browser: navigate, snapshot, then evaluate
// every selector concurrently against the same engine.
func runBrowserCheck(ctx context.Context, cmd *cobra.Command, cfg *config.Config) error {
	logger := observability.GetLogger()
	cc := cfg.Check()

	mgr, err := browser.NewManager(ctx, logger, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := mgr.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Browser shutdown reported an error.", zap.Error(err))
		}
	}()

	sess, err := mgr.NewSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	if err := sess.Navigate(ctx, cc.URL); err != nil {
		return err
	}
	if _, err := sess.Snapshot(ctx); err != nil {
		return err
	}

	engine := actionability.New(sess.Env(), actionability.WithLogger(logger))

	results := make([]selectorReport, len(cc.Selectors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Engine().Concurrency)
	for i, sel := range cc.Selectors {
		g.Go(func() error {
			results[i] = checkSelector(gctx, sess, engine, cfg, sel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return emitReport(cmd, checkReport{Target: cc.URL, Results: results})
}

func checkSelector(ctx context.Context, sess *browser.Session, engine *actionability.Engine, cfg *config.Config, selector string) selectorReport {
	report := selectorReport{Selector: selector}
	cc := cfg.Check()

	el, err := sess.Query(ctx, selector)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	states := requestedStates(cc)
	if len(states) > 0 {
		res := engine.ElementStates(ctx, el, states)
		if res.Err != nil {
			report.Error = res.Err.Error()
			return report
		}
		report.States = &statesReport{
			Matches:  res.Matches,
			Missing:  string(res.Missing),
			Received: string(res.Received),
		}
	}

	if cc.Interaction == "" {
		return report
	}
	interaction := actionability.Interaction(cc.Interaction)

	if cc.Wait {
		timeout := cc.Timeout
		if timeout <= 0 {
			timeout = cfg.Engine().DefaultTimeout
		}
		pt, err := engine.WaitReady(ctx, el, interaction, timeout, nil)
		if err != nil {
			report.Error = err.Error()
			return report
		}
		report.Readiness = &readinessReport{State: actionability.Ready.String(), Point: &pt}
		return report
	}

	r, err := engine.Ready(ctx, el, interaction, nil)
	if err != nil {
		report.Error = err.Error()
		return report
	}
	report.Readiness = &readinessReport{State: r.State.String()}
	if r.State == actionability.Ready {
		pt := r.Point
		report.Readiness.Point = &pt
	}
	return report
}

// requestedStates maps the CLI flags to a state list. With no explicit
// states and no interaction the command falls back to the click set, which
// is what "is this element ready" usually means.
func requestedStates(cc config.CheckConfig) []dom.State {
	if len(cc.States) > 0 {
		states := make([]dom.State, len(cc.States))
		for i, s := range cc.States {
			states[i] = dom.State(s)
		}
		return states
	}
	if cc.Interaction == "" {
		states, _ := actionability.RequiredStates(actionability.Click)
		return states
	}
	return nil
}

// runOfflineCheck inspects a parsed HTML file without a browser.
func runOfflineCheck(cmd *cobra.Command, cfg *config.Config) error {
	cc := cfg.Check()

	f, err := os.Open(cc.HTMLFile)
	if err != nil {
		return fmt.Errorf("open %s: %w", cc.HTMLFile, err)
	}
	defer f.Close()

	doc, err := memdom.Parse(f)
	if err != nil {
		return err
	}

	results := make([]selectorReport, 0, len(cc.Selectors))
	for _, sel := range cc.Selectors {
		report := selectorReport{Selector: sel}
		match, err := simpleSelector(sel)
		if err != nil {
			report.Error = err.Error()
			results = append(results, report)
			continue
		}
		el := memdom.First(doc, match)
		if el == nil {
			report.Error = fmt.Sprintf("no element matches %q", sel)
			results = append(results, report)
			continue
		}
		report.Facts = &structuralFacts{
			Tag:              el.Tag(),
			Role:             aria.EffectiveRole(el),
			Focusable:        dom.IsFocusable(el),
			NativelyDisabled: dom.IsNativelyDisabled(el),
			AriaDisabled:     aria.HasExplicitAriaDisabled(el, true),
			ReadOnlyRole:     aria.IsReadOnlyRole(el),
		}
		results = append(results, report)
	}

	return emitReport(cmd, checkReport{Target: cc.HTMLFile, Results: results})
}

// simpleSelector supports the tag, #id and .class forms, which covers
// offline inspection without a CSS engine.
func simpleSelector(sel string) (func(dom.Element) bool, error) {
	switch {
	case sel == "":
		return nil, fmt.Errorf("empty selector")
	case strings.HasPrefix(sel, "#"):
		id := sel[1:]
		return func(el dom.Element) bool {
			return dom.AttrValue(el, "id") == id
		}, nil
	case strings.HasPrefix(sel, "."):
		class := sel[1:]
		return func(el dom.Element) bool {
			for _, c := range strings.Fields(dom.AttrValue(el, "class")) {
				if c == class {
					return true
				}
			}
			return false
		}, nil
	default:
		if strings.ContainsAny(sel, " >[]:+~") {
			return nil, fmt.Errorf("offline mode supports only tag, #id and .class selectors, got %q", sel)
		}
		tag := strings.ToLower(sel)
		return func(el dom.Element) bool {
			return el.Tag() == tag
		}, nil
	}
}

func emitReport(cmd *cobra.Command, report checkReport) error {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
