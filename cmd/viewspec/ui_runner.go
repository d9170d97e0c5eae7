package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"viewspec/internal/batch"
	"viewspec/internal/model"
	"viewspec/internal/ui"
)

type batchOutcome struct {
	results []batch.Result
	err     error
}

func runBatchWithUI(ctx context.Context, title string, labels []string, roots []model.Handle, opts batch.Options) ([]batch.Result, error) {
	events := make(chan batch.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = batch.ChannelSink{Ch: events}
		res, err := batch.Render(ctx, roots, optsCopy)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, labels, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
