// ABOUTME: CLI mode implementation for non-interactive threshold rejection
// ABOUTME: Handles result output and exit behavior for batch usage

package main

import (
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"epoch-select/epoch"
	"epoch-select/rejection"
)

// RunCLI executes the non-interactive threshold rejection mode: apply
// one threshold pass, print the resulting table, and save unless
// -dry-run is set.
func RunCLI(opts RunOptions) error {
	sess, err := InitializeSession(opts)
	if err != nil {
		return err
	}

	methodName := opts.Method
	if methodName == "" {
		methodName = sess.Config.Method
	}

	method, err := rejection.ParseMethod(methodName)
	if err != nil {
		return err
	}

	threshold := opts.Threshold
	if threshold == 0 {
		threshold = sess.Config.Threshold
	}

	above := opts.MarkAbove
	below := opts.MarkBelow

	fmt.Printf("Reading epochs: %s (%d trials, %d channels)\n",
		opts.EpochsPath, sess.Trials.Len(), sess.Trials.NumChannels())
	fmt.Printf("Threshold rejection: %s %g\n", method, threshold)

	n, err := sess.Model.AutoReject(rejection.ThresholdConfig{
		Threshold: threshold,
		Method:    method,
		Above:     &above,
		Below:     &below,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Changed %d trial(s)\n\n", n)

	printTrialTable(sess)

	if opts.DryRun {
		fmt.Println("\n--dry-run mode: rejection file not written")

		return nil
	}

	if sess.Model.Doc().Path() == "" {
		return fmt.Errorf("no rejection file set, pass -rej to save results")
	}

	if err := sess.Model.Save(); err != nil {
		return fmt.Errorf("failed to save rejection file: %w", err)
	}

	fmt.Printf("\nWrote rejection file: %s\n", sess.Model.Doc().Path())

	return nil
}

// printTrialTable dumps the per-trial decision table to stdout
func printTrialTable(sess *Session) {
	doc := sess.Model.Doc()
	stats := epoch.ComputeStats(doc.CleanTrials())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "#\tTrigger\tState\tTag\tMaxAbs\tP2P"); err != nil {
		log.Printf("Warning: failed to write header: %v", err)
	}

	if _, err := fmt.Fprintln(w, "---\t-------\t-----\t---\t------\t---"); err != nil {
		log.Printf("Warning: failed to write separator: %v", err)
	}

	triggers := doc.Triggers()
	for i := 0; i < doc.Len(); i++ {
		state := "ok"
		if !doc.AcceptAt(i) {
			state = "REJECT"
		}

		if _, err := fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%.4g\t%.4g\n",
			i,
			triggers[i],
			state,
			doc.TagAt(i),
			stats[i].MaxAbs,
			stats[i].PeakToPeak,
		); err != nil {
			log.Printf("Warning: failed to write trial %d: %v", i, err)
		}
	}

	if err := w.Flush(); err != nil {
		log.Printf("Warning: failed to flush output: %v", err)
	}
}
