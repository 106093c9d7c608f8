// Copyright 2024 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package cmd implements the commands of the yschema utility.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openconfig/yangkit/util"
)

// RootCmd returns the yschema command and its subcommands.
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "yschema",
		Short: "yschema builds YANG schema contexts and resolves data tree paths",
	}

	cfgFile := rootCmd.PersistentFlags().String("config_file", "", "Path to config file.")
	rootCmd.PersistentFlags().StringSlice("features", nil, "Supported features as module:feature. All features are supported when unset.")
	rootCmd.PersistentFlags().Bool("semver", false, "Select imported modules by their openconfig-version.")
	rootCmd.PersistentFlags().Int("workers", 0, "Number of sources read and processed concurrently.")
	rootCmd.PersistentFlags().StringSlice("path", nil, "Files or directories of library sources, built only when required.")
	rootCmd.PersistentFlags().Bool("debug", false, "Trace the expansion of uses and augment statements.")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if *cfgFile != "" {
			viper.SetConfigFile(*cfgFile)
			if err := viper.ReadInConfig(); err != nil {
				return fmt.Errorf("error reading config: %w", err)
			}
		}
		viper.BindPFlags(cmd.Flags())
		// Settings such as path would otherwise be read from $PATH.
		viper.SetEnvPrefix("yschema")
		viper.AutomaticEnv()
		util.SetDebug(viper.GetBool("debug"))
		return nil
	}

	rootCmd.AddCommand(newBuildCmd())
	rootCmd.AddCommand(newTreeCmd())
	rootCmd.AddCommand(newResolveCmd())
	rootCmd.AddCommand(newModelsCmd())
	rootCmd.AddCommand(newPathsCmd())

	return rootCmd
}
