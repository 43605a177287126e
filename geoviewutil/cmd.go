/*
Copyright © 2026 the GeoView authors.
This file is part of GeoView.

GeoView is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

GeoView is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with GeoView.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package geoviewutil holds the configuration and commands for the
// geoview command-line interface.
package geoviewutil

import (
	"fmt"
	"os"

	"github.com/lnashier/viper"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/geoviewer/geoview"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to GeoView.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "HistoryFile",
			usage: `
              HistoryFile is the path to the file holding the list of
              recently opened datasets. An empty path disables history
              recording.`,
			defaultVal: "${HOME}/.geoview_history",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "output",
			usage: `
              output is the path the rendered PNG map is written to.`,
			shorthand:  "o",
			defaultVal: "map.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "legend",
			usage: `
              legend is the path a PNG color legend is written to when
              plotting gridded data. An empty path disables the legend.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "width",
			usage: `
              width is the output image width in pixels.`,
			defaultVal: 800,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "x",
			usage: `
              x names the dimension to use as the horizontal map axis,
              overriding the automatic choice based on dimension names.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "y",
			usage: `
              y names the dimension to use as the vertical map axis,
              overriding the automatic choice based on dimension names.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "at",
			usage: `
              at pins non-spatial dimensions to fixed indices as a list
              of name=index pairs, for example --at time=3,level=0.
              Dimensions of length one are pinned automatically.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("GEOVIEW")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(infoCmd)
	Root.AddCommand(varsCmd)
	Root.AddCommand(plotCmd)
	Root.AddCommand(historyCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("geoview: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// historyFile returns the configured history file path with environment
// variables expanded.
func historyFile() string {
	return os.ExpandEnv(Cfg.GetString("HistoryFile"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "geoview",
	Short: "A viewer for gridded and vector geospatial data.",
	Long: `GeoView inspects and maps NetCDF grid datasets and ESRI shapefiles.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the format
'GEOVIEW_var' where 'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration
information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of GeoView.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("GeoView v%s\n", geoview.Version)
	},
	DisableAutoGenTag: true,
}

var infoCmd = &cobra.Command{
	Use:   "info [dataset]",
	Short: "Print dataset metadata",
	Long: `info opens the given dataset and prints its metadata: dimensions,
variables, and attributes for NetCDF grids; geometry types, attribute
fields, bounds, and coordinate reference system for shapefiles.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Info(cmd.OutOrStdout(), args[0], historyFile())
	},
	DisableAutoGenTag: true,
}

var varsCmd = &cobra.Command{
	Use:   "vars [dataset]",
	Short: "List the plottable variables of a grid dataset",
	Long: `vars lists the variables of a NetCDF dataset that have at least
two dimensions and so can be rendered as a map.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Vars(cmd.OutOrStdout(), args[0])
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot [dataset] [variable]",
	Short: "Render a dataset to a PNG map",
	Long: `plot renders a dataset to a PNG raster map. For a NetCDF grid the
name of the variable to plot must be given as the second argument; for a
shapefile the geometry of every feature is drawn and no variable is named.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		variable := ""
		if len(args) == 2 {
			variable = args[1]
		}
		at, err := cast.ToStringSliceE(Cfg.Get("at"))
		if err != nil {
			return fmt.Errorf("geoview: reading 'at': %v", err)
		}
		return Plot(PlotConfig{
			Dataset:     args[0],
			Variable:    variable,
			Output:      Cfg.GetString("output"),
			Legend:      Cfg.GetString("legend"),
			Width:       Cfg.GetInt("width"),
			XDim:        Cfg.GetString("x"),
			YDim:        Cfg.GetString("y"),
			At:          at,
			HistoryFile: historyFile(),
		})
	},
	DisableAutoGenTag: true,
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently opened datasets",
	Long: `history prints the paths of recently opened datasets, most
recent first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := History(historyFile())
		if err != nil {
			return err
		}
		for _, e := range entries {
			cmd.Println(e)
		}
		return nil
	},
	DisableAutoGenTag: true,
}
