// Copyright © 2017 NAME HERE <EMAIL ADDRESS>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/multi"
	"github.com/apex/log/handlers/text"
	"github.com/marpio/photostat"
	"github.com/marpio/photostat/analyzer"
	"github.com/marpio/photostat/insights"
	"github.com/marpio/photostat/metadata"
	"github.com/marpio/photostat/report"
	"github.com/marpio/photostat/repository/sqlite"
	"github.com/marpio/photostat/storage"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	recursive  bool
	scanFormat string
	scanOutput string
	logPath    string
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Analyze the photos in a directory.",
	Long:  "",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runScan(args[0])
	},
}

func init() {
	RootCmd.AddCommand(scanCmd)

	scanCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "search subdirectories for photos")
	scanCmd.Flags().StringVarP(&scanFormat, "format", "f", "console", "report format: console, csv, json or html")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "report destination (default is a timestamped file)")
	scanCmd.Flags().StringVar(&logPath, "log-file", "log.json", "file for the json log stream")
	scanCmd.Flags().String("db", "", "path to the metadata cache (default is $HOME/.photostat.db)")
	viper.BindPFlag("db", scanCmd.Flags().Lookup("db"))
}

func dbPath() string {
	if p := viper.GetString("db"); p != "" {
		return p
	}
	home, err := homedir.Dir()
	if err != nil {
		log.Fatalf("error finding home directory: %v", err)
	}
	return filepath.Join(home, ".photostat.db")
}

func runScan(dir string) {
	logFile, err := os.Create(logPath)
	if err != nil {
		log.Fatal("error creating log file")
	}
	defer logFile.Close()
	log.SetHandler(multi.New(
		text.New(os.Stderr),
		json.New(logFile),
	))

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer close(sigs)

	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	logctx := log.WithFields(log.Fields{
		"cmd":          "photostat-cli",
		"analyzed_dir": dir,
	})

	go func() {
		<-sigs
		logctx.Warn("SIGINT or SIGTERM - terminating...")
		cancel()
	}()

	appFs := afero.NewOsFs()
	strg := storage.NewLocal(appFs)
	repo := sqlite.New(dbPath())
	defer repo.Close()

	svc := analyzer.New(strg, repo, metadata.NewExtractor(strg))
	recs, err := svc.Execute(ctx, logctx, dir, recursive)
	if err != nil {
		repo.Close()
		log.Fatalf("error analyzing directory: %v", err)
	}
	if len(recs) == 0 {
		logctx.Warn("no photos with readable metadata found")
		repo.Close()
		os.Exit(1)
	}
	logctx.Infof("found %d photos with metadata", len(recs))

	ins := insights.Compute(recs)
	if scanFormat == "console" {
		report.WriteSummary(os.Stdout, ins)
		return
	}

	dest, err := writeReport(appFs, report.NewExport(dir, recs, ins), recs)
	if err != nil {
		repo.Close()
		log.Fatalf("error writing %v report: %v", scanFormat, err)
	}
	logctx.Infof("report written to %s", dest)
}

// writeReport stages the export and commits it to its destination. The
// staging area is torn down on every path, so a failed render leaves no
// scratch directory behind.
func writeReport(fs afero.Fs, e *report.Export, recs photostat.Collection) (string, error) {
	staging, err := report.NewStaging(fs)
	if err != nil {
		return "", fmt.Errorf("preparing report staging: %w", err)
	}
	defer staging.Cleanup()

	var op *report.Operation
	switch scanFormat {
	case "csv":
		op, err = staging.StageCSV(recs)
	case "json":
		op, err = staging.StageJSON(e)
	case "html":
		op, err = staging.StageHTML(e)
	default:
		return "", fmt.Errorf("unknown report format: %s", scanFormat)
	}
	if err != nil {
		return "", err
	}
	return staging.Commit(op.ID, scanOutput)
}
