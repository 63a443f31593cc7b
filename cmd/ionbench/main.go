/*
 * Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License").
 * You may not use this file except in compliance with the License.
 * A copy of the License is located at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * or in the "license" file accompanying this file. This file is distributed
 * on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either
 * express or implied. See the License for the specific language governing
 * permissions and limitations under the License.
 */

// Command ionbench is a developer-only tool for poking at binary Ion
// streams from the command line. It is not part of the library's public
// contract: its output format and flags may change at any time.
package main

import (
	"crypto/sha256"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	ion "github.com/tetradata/ion-binary-go"
	"github.com/tetradata/ion-binary-go/internal/ionlog"
	"github.com/tetradata/ion-binary-go/ionhash"
)

func main() {
	app := &cli.App{
		Name:  "ionbench",
		Usage: "inspect binary Ion streams",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "emit debug logging from the decoder/encoder/hasher",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "dump",
				Usage:     "decode a file and print each top-level value's type, and its Ion Hash digest",
				ArgsUsage: "<file>",
				Action:    runDump,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runDump(c *cli.Context) error {
	if c.Bool("verbose") {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		ionlog.SetLogger(logger.Sugar())
	}

	path := c.Args().First()
	if path == "" {
		return cli.Exit("ionbench dump: missing <file> argument", 1)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := ion.NewDecoder(f, nil)
	if err != nil {
		return err
	}

	values, err := dec.ConsumeAll()
	if err != nil {
		return err
	}

	for i, v := range values {
		digest, err := ionhash.Hash(v, sha256.New, ionhash.WithUnknownSymbolText())
		if err != nil {
			return fmt.Errorf("ionbench: hashing value %d: %w", i, err)
		}
		if iv, ok := v.(ion.Int); ok {
			fmt.Printf("%d: %-10s size=%-7s sha256=%x\n", i, v.Type(), iv.Size(), digest)
			continue
		}
		fmt.Printf("%d: %-10s sha256=%x\n", i, v.Type(), digest)
	}

	fmt.Printf("%d value(s), final symbol table has %d local symbol(s)\n",
		len(values), len(dec.SymbolTable().Symbols()))
	return nil
}
