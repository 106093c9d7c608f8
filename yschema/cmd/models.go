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


package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"google.golang.org/protobuf/encoding/prototext"

	gpb "github.com/openconfig/gnmi/proto/gnmi"

	"github.com/openconfig/yangkit/util"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models [files or directories]",
		RunE:  printModels,
		Short: "Prints the gNMI CapabilityResponse supported models of the built modules.",
		Args:  cobra.MinimumNArgs(1),
	}
}

func printModels(cmd *cobra.Command, args []string) error {
	ctx, err := loadContext(args)
	if err != nil {
		return err
	}
	resp := &gpb.CapabilityResponse{SupportedModels: util.FindModelData(ctx)}
	fmt.Fprint(cmd.OutOrStdout(), prototext.Format(resp))
	return nil
}
