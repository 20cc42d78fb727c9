package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ashureev/biasguard/internal/client"
	"github.com/ashureev/biasguard/internal/domain"
	"github.com/spf13/cobra"
)

var applicant = domain.DefaultApplicant()

var (
	analyzeCategory string
	historyAges     []int
)

func stderrAlert() client.Alerter {
	return client.AlertFunc(func(msg string) {
		fmt.Fprintln(os.Stderr, alertStyle.Render("⚠ "+msg))
	})
}

func addApplicantFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&applicant.Age, "age", applicant.Age, "candidate age")
	cmd.Flags().IntVar(&applicant.EducationNum, "education-num", applicant.EducationNum, "years of education")
	cmd.Flags().IntVar(&applicant.Sex, "sex", applicant.Sex, "sex parameter (1 male, 0 female)")
	cmd.Flags().IntVar(&applicant.HoursPerWeek, "hours-per-week", applicant.HoursPerWeek, "hours worked per week")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a single applicant record",
	RunE:  runAudit,
}

func runAudit(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	form := client.NewForm(newClient(), applicant.Clone(), stderrAlert(), historyLimit)
	result, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderResult("Audit Decision", result))
	return nil
}

// twinsCmd submits two applicants that differ only in sex.
var twinsCmd = &cobra.Command{
	Use:   "twins",
	Short: "Run a live ethical audit on twin profiles that differ only in sex",
	RunE:  runTwins,
}

func runTwins(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headingStyle.Render("--- STARTING LIVE ETHICAL AUDIT ---"))

	profiles := []struct {
		name string
		sex  int
	}{
		{"Female Applicant", 0},
		{"Male Applicant", 1},
	}

	c := newClient()
	decisions := make([]string, 0, len(profiles))
	for _, p := range profiles {
		in := applicant.Clone().(*domain.ApplicantInput)
		in.Sex = p.sex

		form := client.NewForm(c, in, stderrAlert(), historyLimit)
		result, err := form.Submit(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
		decisions = append(decisions, result.Decision())
		fmt.Fprintln(out, renderResult("Results for "+p.name, result))
	}

	if decisions[0] != decisions[1] {
		fmt.Fprintln(out, alertStyle.Render("Twin decisions differ: outcome depends on sex."))
	} else {
		fmt.Fprintln(out, mutedStyle.Render("Twin decisions match."))
	}
	return nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Audit free text for biased language",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	form := client.NewForm(newClient(), domain.DefaultText(), stderrAlert(), historyLimit)
	if err := form.Set("text", strings.Join(args, " ")); err != nil {
		return err
	}
	if err := form.Set("category", analyzeCategory); err != nil {
		return err
	}

	result, err := form.Submit(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderResult("Text Audit", result))
	return nil
}

// historyCmd runs one audit per --ages value on a single form and prints
// the capped session history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Audit a series of ages and show the session history",
	RunE:  runHistory,
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	if len(historyAges) == 0 {
		return errors.New("at least one --ages value is required")
	}

	form := client.NewForm(newClient(), applicant.Clone(), stderrAlert(), historyLimit)
	failed := 0
	for _, age := range historyAges {
		if err := form.Set("age", strconv.Itoa(age)); err != nil {
			return err
		}
		if _, err := form.Submit(ctx); err != nil {
			failed++
		}
	}

	if latest := form.Result(); latest != nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderResult("Latest Audit", latest))
	}
	renderHistory(cmd.OutOrStdout(), form.History(), time.Now())

	if failed > 0 {
		return fmt.Errorf("%d of %d audits failed", failed, len(historyAges))
	}
	return nil
}

func init() {
	addApplicantFlags(auditCmd)
	addApplicantFlags(twinsCmd)
	addApplicantFlags(historyCmd)

	analyzeCmd.Flags().StringVar(&analyzeCategory, "category", domain.DefaultCategory, "bias category (general, gender, age, race)")
	historyCmd.Flags().IntSliceVar(&historyAges, "ages", []int{22, 30, 45}, "ages to audit in order")
}
