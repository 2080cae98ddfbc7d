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
	"strings"

	"github.com/consensys/go-canon/pkg/group"
	"github.com/consensys/go-canon/pkg/perm"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// groupCmd represents the group command
var groupCmd = &cobra.Command{
	Use:   "group [flags] tensor_file",
	Short: "Print the symmetry group of each tensor in a JSON file.",
	Long: `Print the symmetry group of each tensor in a JSON file.
	For each tensor, the base and the per-level orbits of the underlying
	stabilizer chain are shown, along with the group order.`,
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
			if err := printGroup(description); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(groupCmd)
	groupCmd.Flags().BoolP("verbose", "v", false, "enable debug logging")
}

func printGroup(description TensorDescription) error {
	t, err := description.Build()
	if err != nil {
		return err
	}
	// Expand all symmetries
	var generators []perm.Signed
	//
	for _, sym := range t.Symmetries() {
		gens, err := sym.Expand(t.Rank())
		if err != nil {
			return err
		}
		//
		generators = append(generators, gens...)
	}
	//
	g, err := group.New(t.Rank(), generators)
	if err != nil {
		return err
	}
	//
	fmt.Printf("%s: order %s, base %v\n", t, g.Order(), g.Base())
	//
	for i := uint(0); i < g.NumLevels(); i++ {
		line := fmt.Sprintf("  level %d: point %d, orbit %v", i, g.BasePoint(i), g.OrbitAt(i))
		fmt.Println(clampLine(line))
	}
	//
	if g.HasNegativeIdentity() {
		fmt.Println("  contains negative identity (all tensors vanish)")
	}
	//
	return nil
}

// clampLine truncates a line to the terminal width (where one is available).
func clampLine(line string) string {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	//
	if err != nil || width <= 3 || len(line) <= width {
		return line
	}
	//
	return strings.TrimSpace(line[:width-3]) + "..."
}
