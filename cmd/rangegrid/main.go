/*
Copyright © 2024 the RangeGrid authors.
This file is part of RangeGrid.

RangeGrid is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

RangeGrid is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with RangeGrid.  If not, see <http://www.gnu.org/licenses/>.
*/

// rangegrid is a command-line tool for gridded analysis of animal
// ranging data: home-range estimation and per-cell aggregation of
// attributed GPS relocations.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is the version of this program.
const Version = "0.1.0"

var logger *logrus.Logger

func init() {
	logger = logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

var (
	configFile string

	// config holds the global configuration data.
	config *ConfigData
)

var rootCmd = &cobra.Command{
	Use:   "rangegrid",
	Short: "Gridded analysis of animal ranging data.",
	Long: `rangegrid estimates home ranges from GPS relocation data and
aggregates attributed point observations onto a regular grid clipped
to the home range, for thematic mapping.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		config, err = ReadConfigFile(configFile)
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of rangegrid",
	Run: func(cmd *cobra.Command, args []string) {
		logger.Printf("rangegrid v%s", Version)
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./rangegrid.toml", "configuration file location")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(gridCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(kernelCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorln(err)
		os.Exit(1)
	}
}
