package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/derekprior/cupplan/internal/excel"
	"github.com/derekprior/cupplan/internal/planner"
	"github.com/derekprior/cupplan/internal/schedule"
	"github.com/derekprior/cupplan/internal/validator"
)

func (a *app) runGenerate(ctx context.Context, configFlag, outputPath, selected string) error {
	cfg, err := a.loadConfig(configFlag)
	if err != nil {
		return err
	}

	plan, err := planner.New(a.logger).Run(ctx, cfg)
	if plan != nil && len(plan.Dropped) > 0 {
		fmt.Printf("⚠ Ignoring %d invalid or duplicate team entries: %q\n", len(plan.Dropped), plan.Dropped)
	}
	switch {
	case errors.Is(err, planner.ErrNoCapacity):
		return fmt.Errorf("cannot build a calendar: %w", err)
	case err != nil:
		return err
	}

	chosen, err := schedule.Select(plan.Proposals, selected)
	if err != nil {
		return err
	}

	fmt.Printf("Scheduling %d fixtures in %d group(s) into %d cells...\n\n",
		len(plan.Fixtures), len(plan.Groups), len(plan.Cells))

	fmt.Println("Proposals:")
	for _, p := range plan.Proposals {
		marker := "✓"
		if !p.Result.Complete() {
			marker = "⚠"
		}
		fmt.Printf("  %s %-18s %d of %d fixtures scheduled\n", marker, p.Label, len(p.Result.Matches), len(plan.Fixtures))
	}

	fmt.Printf("\nPer Team Metrics (%s):\n", chosen.Label)
	fmt.Printf("  %-20s %7s %8s\n", "Team", "Matches", "Min Gap")
	for _, team := range plan.Teams {
		m, ok := chosen.Result.TeamMetrics[team]
		if !ok {
			m = &schedule.TeamMetrics{}
		}
		fmt.Printf("  %-20s %7d %8d\n", team, m.Matches, m.MinGap)
	}

	if warnings := chosen.Result.Warnings(); len(warnings) > 0 {
		fmt.Printf("\nUnscheduled fixtures (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("  ⚠ %s\n", w)
		}
	} else {
		fmt.Println("\n✓ Every fixture has a slot")
	}
	for _, c := range schedule.SlotClashes(chosen.Result.Matches) {
		fmt.Printf("  ⚠ %s\n", c)
	}

	f, err := excel.Generate(cfg, plan, chosen)
	if err != nil {
		return fmt.Errorf("generating Excel: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("\n✓ Schedule saved to %s\n", outputPath)
	if !chosen.Result.Complete() {
		return fmt.Errorf("%s proposal is incomplete: %d of %d fixtures scheduled",
			chosen.Label, len(chosen.Result.Matches), len(plan.Fixtures))
	}
	return nil
}

func (a *app) runValidate(configFlag, schedulePath, proposal string) error {
	cfg, err := a.loadConfig(configFlag)
	if err != nil {
		return err
	}

	sheet := validator.SheetName(proposal)
	violations, err := validator.Validate(cfg, schedulePath, sheet)
	if err != nil {
		return fmt.Errorf("validating: %w", err)
	}

	errs := 0
	warnings := 0
	for _, v := range violations {
		msg := v.Message
		if v.Row > 0 {
			msg = fmt.Sprintf("row %d: %s", v.Row, msg)
		}
		switch v.Type {
		case "error":
			errs++
			fmt.Printf("✗ Rule violation: %s\n", msg)
		case "warning":
			warnings++
			fmt.Printf("⚠ %s\n", msg)
		}
	}

	fmt.Printf("\nValidation of %s complete: %d rule violations, %d warnings\n", sheet, errs, warnings)
	if errs > 0 {
		return fmt.Errorf("%d constraint violations found", errs)
	}
	return nil
}

func (a *app) runMove(schedulePath, fromArg, toArg, proposal string) error {
	from, err := strconv.Atoi(fromArg)
	if err != nil {
		return fmt.Errorf("invalid position %q", fromArg)
	}
	to, err := strconv.Atoi(toArg)
	if err != nil {
		return fmt.Errorf("invalid position %q", toArg)
	}

	f, err := excelize.OpenFile(schedulePath)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	sheet := validator.SheetName(proposal)
	rows, err := excel.ReadSchedule(f, sheet)
	if err != nil {
		return err
	}
	matches := make([]schedule.Match, len(rows))
	for i, r := range rows {
		matches[i] = r.Match
	}

	// Positions are 1-based on the command line.
	moved, err := schedule.Move(matches, from-1, to-1)
	if err != nil {
		return err
	}
	a.logger.Debug("moved match",
		zap.String("sheet", sheet),
		zap.String("fixture", matches[from-1].Fixture.ID),
		zap.Int("from", from),
		zap.Int("to", to))

	if err := excel.UpdateSchedule(f, sheet, moved); err != nil {
		return err
	}
	selected, err := excel.ResultsProposal(f)
	if err != nil {
		return err
	}
	if selected == sheet {
		if err := excel.UpdateResults(f, moved); err != nil {
			return err
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	m := moved[to-1]
	fmt.Printf("✓ Moved %s (%s vs %s) to %s on field %d\n",
		m.Fixture.ID, m.Fixture.TeamA, m.Fixture.TeamB, m.Cell.Start.Format("01/02 15:04"), m.Cell.Field)
	for _, v := range schedule.RestViolations(moved) {
		fmt.Printf("⚠ %s\n", v)
	}
	for _, c := range schedule.SlotClashes(moved) {
		fmt.Printf("⚠ %s\n", c)
	}
	return nil
}
