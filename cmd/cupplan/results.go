package main

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/derekprior/cupplan/internal/excel"
	"github.com/derekprior/cupplan/internal/standings"
)

func (a *app) runRecord(schedulePath, teamA, teamB, scoreAArg, scoreBArg string) error {
	scoreA, err := strconv.Atoi(scoreAArg)
	if err != nil {
		return fmt.Errorf("invalid score %q", scoreAArg)
	}
	scoreB, err := strconv.Atoi(scoreBArg)
	if err != nil {
		return fmt.Errorf("invalid score %q", scoreBArg)
	}

	f, err := excelize.OpenFile(schedulePath)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	rows, err := excel.ReadResults(f)
	if err != nil {
		return err
	}

	var teams []string
	seen := make(map[string]bool)
	for _, r := range rows {
		for _, t := range r.Fixture.Teams() {
			if !seen[t] {
				seen[t] = true
				teams = append(teams, t)
			}
		}
	}

	nameA, err := standings.ResolveTeam(teamA, teams)
	if err != nil {
		return err
	}
	nameB, err := standings.ResolveTeam(teamB, teams)
	if err != nil {
		return err
	}
	if nameA == nameB {
		return fmt.Errorf("%q and %q both resolve to %s", teamA, teamB, nameA)
	}
	a.logger.Debug("resolved teams", zap.String("a", nameA), zap.String("b", nameB))

	var fixtureID string
	for _, r := range rows {
		switch {
		case r.Fixture.TeamA == nameA && r.Fixture.TeamB == nameB:
			fixtureID = r.Fixture.ID
		case r.Fixture.TeamA == nameB && r.Fixture.TeamB == nameA:
			fixtureID = r.Fixture.ID
			nameA, nameB = nameB, nameA
			scoreA, scoreB = scoreB, scoreA
		default:
			continue
		}
		break
	}
	if fixtureID == "" {
		return fmt.Errorf("%s and %s do not play each other", nameA, nameB)
	}

	if err := excel.RecordResult(f, fixtureID, scoreA, scoreB); err != nil {
		return err
	}
	if _, err := refreshStandings(f); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	fmt.Printf("✓ Recorded %s %d-%d %s (%s)\n", nameA, scoreA, scoreB, nameB, fixtureID)
	return nil
}

func (a *app) runStandings(schedulePath string) error {
	f, err := excelize.OpenFile(schedulePath)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	tables, err := refreshStandings(f)
	if err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}

	groups := standings.Groups(tables)
	if len(groups) == 0 {
		fmt.Println("No results recorded yet")
		return nil
	}
	for _, label := range groups {
		fmt.Printf("Group %s\n", label)
		fmt.Printf("  %-20s %3s %3s %3s %4s\n", "Team", "P", "W", "L", "Pts")
		for _, r := range tables[label] {
			fmt.Printf("  %-20s %3d %3d %3d %4d\n", r.Team, r.Played, r.Wins, r.Losses, r.Points)
		}
		fmt.Println()
	}
	fmt.Printf("✓ Standings saved to %s\n", schedulePath)
	return nil
}

func refreshStandings(f *excelize.File) (map[string][]standings.Row, error) {
	rows, err := excel.ReadResults(f)
	if err != nil {
		return nil, err
	}
	tables := excel.Standings(rows)
	if err := excel.WriteStandings(f, tables); err != nil {
		return nil, fmt.Errorf("writing standings: %w", err)
	}
	return tables, nil
}
