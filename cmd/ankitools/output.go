// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/ankitools/internal/ankiconnect"
	"github.com/pdiddy/ankitools/internal/ui"
	"github.com/pdiddy/ankitools/pkg/types"
)

// newPrinter builds a printer for the command's output stream using the
// --output flag. Text output is styled only on a terminal.
func newPrinter(cmd *cobra.Command) (*ui.Printer, error) {
	name, _ := cmd.Flags().GetString("output")
	format, err := ui.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	w := cmd.OutOrStdout()
	return &ui.Printer{W: w, Format: format, Styled: styled(w)}, nil
}

func styled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTerminal(f)
}

// newStore returns an AnkiConnect client for the resolved configuration.
func newStore() *ankiconnect.Client {
	return ankiconnect.New(cfg.Anki)
}

// finish prints the report and turns item failures into a non-zero exit.
func finish(cmd *cobra.Command, report types.Report) error {
	p, err := newPrinter(cmd)
	if err != nil {
		return err
	}
	if err := p.Report(report); err != nil {
		return err
	}
	if report.HasFailures() {
		failed := report.Failures()
		return fmt.Errorf("%d item(s) failed, first %q: %s", len(failed), failed[0].Item, failed[0].Reason)
	}
	return nil
}
