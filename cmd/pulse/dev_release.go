//go:build release

package main

import "github.com/spf13/cobra"

func addDevCommands(_ *cobra.Command) {}
