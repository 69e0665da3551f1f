package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Флаги объявляются в init(), поэтому ошибка чтения означает опечатку в имени.
func flagPanic(name string, err error) {
	panic(fmt.Sprintf("read flag --%s: %v", name, err))
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		flagPanic(name, err)
	}
	return v
}

func mustGetInt(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		flagPanic(name, err)
	}
	return v
}

func mustGetString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		flagPanic(name, err)
	}
	return v
}

func mustGetFloat64(cmd *cobra.Command, name string) float64 {
	v, err := cmd.Flags().GetFloat64(name)
	if err != nil {
		flagPanic(name, err)
	}
	return v
}
