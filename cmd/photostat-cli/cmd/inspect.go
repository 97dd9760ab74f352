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
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/apex/log"
	"github.com/apex/log/handlers/discard"
	"github.com/apex/log/handlers/text"
	"github.com/marpio/photostat"
	"github.com/marpio/photostat/metadata"
	"github.com/marpio/photostat/report"
	"github.com/marpio/photostat/storage"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	summaryOnly   bool
	noGPS         bool
	quiet         bool
	inspectOutput string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show every EXIF tag of one or more photos.",
	Long:  "",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runInspect(args)
	},
}

func init() {
	RootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().BoolVarP(&summaryOnly, "summary-only", "s", false, "print only the condensed summary")
	inspectCmd.Flags().BoolVar(&noGPS, "no-gps", false, "leave location data out of the readout and the JSON output")
	inspectCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "", "write the full analysis as JSON to a file")
}

func runInspect(paths []string) {
	if quiet {
		log.SetHandler(discard.New())
	} else {
		log.SetHandler(text.New(os.Stderr))
	}
	ctx := context.Background()

	appFs := afero.NewOsFs()
	strg := storage.NewLocal(appFs)

	opts := report.InspectOptions{
		SummaryOnly: summaryOnly,
	}
	analyses := make([]*metadata.Analysis, 0, len(paths))
	for _, path := range paths {
		info, err := appFs.Stat(path)
		if err != nil {
			log.Fatalf("error reading %v: %v", path, err)
		}
		fi := photostat.NewFileInfo(path, filepath.Ext(path), info.Size(), info.ModTime(), func(p string) ([]byte, error) {
			return afero.ReadFile(appFs, p)
		})

		a, err := metadata.Analyze(ctx, strg, fi)
		if err != nil {
			log.Fatalf("error analyzing %v: %v", path, err)
		}
		if noGPS {
			a.StripLocation()
		}
		analyses = append(analyses, a)
		report.WriteInspect(os.Stdout, a, opts)
	}

	if inspectOutput != "" {
		writeAnalyses(inspectOutput, analyses)
	}
}

func writeAnalyses(path string, analyses []*metadata.Analysis) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("error creating %v: %v", path, err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if len(analyses) == 1 {
		err = enc.Encode(analyses[0])
	} else {
		err = enc.Encode(analyses)
	}
	if err != nil {
		log.Fatalf("error writing analysis: %v", err)
	}
}
