// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-canon/pkg/canon"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// canonCmd represents the canon command
var canonCmd = &cobra.Command{
	Use:   "canon [flags] tensor_file",
	Short: "Canonicalize tensors read from a JSON file.",
	Long: `Canonicalize tensors read from a JSON file.
	Each tensor is rewritten into the lexicographically minimal index
	arrangement reachable under its symmetries, with the accumulated sign
	folded into the coefficient.  Tensors which vanish by antisymmetry
	render as 0.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		if GetFlag(cmd, "verbose") {
			log.SetLevel(log.DebugLevel)
		}
		//
		descriptions, err := readTensorFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		for _, description := range descriptions {
			t, err := description.Build()
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			//
			result, err := canon.Canonicalize(t)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			//
			fmt.Printf("%s => %s\n", t, result)
		}
	},
}

func init() {
	rootCmd.AddCommand(canonCmd)
	canonCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
}
