package main

import (
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

var errAborted = errors.New("chartgen: prompt aborted")

func promptBackend(options []string, fallback string) (string, error) {
	var out string
	prompt := &survey.Select{
		Message: "Backend:",
		Options: options,
		Help:    "Chart library used to draw every figure in the payload.",
	}
	for _, option := range options {
		if option == fallback {
			prompt.Default = fallback
			break
		}
	}
	if err := survey.AskOne(prompt, &out); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", errAborted
		}
		return "", err
	}
	return out, nil
}
