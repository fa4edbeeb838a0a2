// Package report renders search results and simulation histories.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/ThomasAitken/embodied-rationality-theory/internal/agent"
	"github.com/ThomasAitken/embodied-rationality-theory/internal/strategy"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// ParseFormat accepts "table" or "json".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q (want table or json)", s)
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteSearch writes a search result in the given format.
func WriteSearch(w io.Writer, f Format, res *strategy.Result) error {
	if f == FormatJSON {
		return WriteJSON(w, res)
	}
	_, err := io.WriteString(w, FormatSearch(res))
	return err
}

// WriteSimulation writes a simulation snapshot in the given format.
func WriteSimulation(w io.Writer, f Format, snap agent.Snapshot) error {
	if f == FormatJSON {
		return WriteJSON(w, snap)
	}
	_, err := io.WriteString(w, FormatSimulation(snap))
	return err
}

// FormatSearch renders the best path of a search.
func FormatSearch(res *strategy.Result) string {
	var b strings.Builder
	best := res.Best

	b.WriteString(fmt.Sprintf("Search | lookahead %d | starting resources %s\n\n",
		res.LookaheadSteps, humanize.Comma(int64(res.StartingResources))))
	b.WriteString(fmt.Sprintf("Reward:          %s\n", humanize.Comma(int64(best.RewardToDate))))
	b.WriteString(fmt.Sprintf("Final resources: %s\n", humanize.Comma(int64(best.ResourcesToSpend))))
	b.WriteString(fmt.Sprintf("Spent:           %s\n", humanize.Comma(int64(best.ResourcesSpent))))
	b.WriteString(fmt.Sprintf("Steps:           %d\n\n", best.Steps()))

	b.WriteString("Step  Investment  Spend  Payout  Reward  Profit  Resources\n")
	for i, c := range best.Choices {
		b.WriteString(fmt.Sprintf("%4d  %-10s  %5d  %6d  %6d  %+6d  %9d\n",
			i+1, best.InvestmentsChosen[i], c.ResourcesSpent, c.ResourcePayout(), c.Reward, c.ResourceProfit,
			best.ResourceLevelAtEachStep[i]))
	}
	writeBeneficiaries(&b, best.RewardByBeneficiary)

	b.WriteString(fmt.Sprintf("\nExplored %s paths, pruned %s investments, dropped %s dead paths in %s\n",
		humanize.Comma(int64(res.Stats.Explored())),
		humanize.Comma(int64(res.Stats.TotalPruned())),
		humanize.Comma(int64(res.Stats.DeadPaths)),
		res.Elapsed.Round(time.Microsecond)))
	for _, r := range []strategy.PruneReason{
		strategy.PruneUnreachable, strategy.PruneRewardBound, strategy.PruneResourceBound, strategy.PruneDominated,
	} {
		if n := res.Stats.Pruned[r]; n > 0 {
			b.WriteString(fmt.Sprintf("  %-15s %s\n", r, humanize.Comma(int64(n))))
		}
	}
	return b.String()
}

// FormatSimulation renders a simulation history with a resource chart.
func FormatSimulation(snap agent.Snapshot) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Simulation | %d/%d steps | lookahead %d | %s\n\n",
		len(snap.Steps), snap.Timesteps, snap.Lookahead, snap.StopReason))
	b.WriteString(fmt.Sprintf("Reward:    %s\n", humanize.Comma(int64(snap.Reward))))
	b.WriteString(fmt.Sprintf("Resources: %s (started with %s)\n",
		humanize.Comma(int64(snap.Resources)), humanize.Comma(int64(snap.StartingResources))))
	if snap.Dead {
		b.WriteString("The agent is dead.\n")
	}
	if !snap.UpdatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Updated:   %s\n", humanize.Time(snap.UpdatedAt)))
	}

	if len(snap.Steps) > 0 {
		b.WriteString("\nStep  Investment  Spend  Reward  Resources\n")
		for _, st := range snap.Steps {
			b.WriteString(fmt.Sprintf("%4d  %-10s  %5d  %6d  %9d  %s\n",
				st.Timestep+1, st.InvestmentID, st.Choice.ResourcesSpent, st.Reward, st.Resources,
				bar(st.Resources, slices.Max(snap.ResourceLevels()))))
		}
	}
	writeBeneficiaries(&b, snap.RewardByBeneficiary)
	return b.String()
}

func writeBeneficiaries(b *strings.Builder, rewards map[string]int) {
	if len(rewards) == 0 {
		return
	}
	ids := make([]string, 0, len(rewards))
	for id := range rewards {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	b.WriteString("\nReward by beneficiary:\n")
	for _, id := range ids {
		b.WriteString(fmt.Sprintf("  %-10s %s\n", id, humanize.Comma(int64(rewards[id]))))
	}
}

const barWidth = 30

func bar(v, maxV int) string {
	if maxV <= 0 || v <= 0 {
		return ""
	}
	return strings.Repeat("#", max(v*barWidth/maxV, 1))
}
