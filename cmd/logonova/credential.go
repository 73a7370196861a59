package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fpang/logonova/internal/cli"
)

var credentialCmd = &cobra.Command{
	Use:   "credential",
	Short: "Check or select the provider API key",
}

var credentialCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the API key from the environment or the credentials file",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newStudio()
		return reportValidation(svc.ValidateCredential(cmd.Context()))
	},
}

var credentialSelectCmd = &cobra.Command{
	Use:   "select",
	Short: "Enter an API key in a dialog and validate it",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := newStudio()
		if err := svc.Gate().OpenSelection(cmd.Context()); err != nil {
			return err
		}
		if err := reportValidation(svc.ValidateCredential(cmd.Context())); err != nil {
			return err
		}
		fmt.Println("Set LOGONOVA_API_KEY to use this key in later sessions.")
		return nil
	},
}

func init() {
	credentialCmd.AddCommand(credentialCheckCmd, credentialSelectCmd)
	rootCmd.AddCommand(credentialCmd)
}

func reportValidation(err error) error {
	fmt.Println(cli.ValidationMessage(err))
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
