// Copyright (c) 2026 The PoCS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/auguth/pocs/ledger"
	"github.com/auguth/pocs/lvldb"
	"github.com/auguth/pocs/pocs"
	"github.com/auguth/pocs/stake"
)

var (
	version   string
	gitCommit string
)

func fullVersion() string {
	if gitCommit == "" {
		return version + "-dev"
	}
	return fmt.Sprintf("%s-%s", version, gitCommit)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "PoCS",
		Usage:     "Proof of Contract Stake ledger tool",
		Copyright: "2026 The PoCS developers",
		Commands: []cli.Command{
			{
				Name:      "inspect",
				Usage:     "Print a contract's stake and delegation records",
				ArgsUsage: "<contract-address>",
				Flags: []cli.Flag{
					dataDirFlag,
				},
				Action: inspectAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func inspectAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("exactly one contract address expected")
	}
	contract, err := pocs.ParseAddress(ctx.Args().First())
	if err != nil {
		return errors.Wrap(err, "parse contract address")
	}

	db, err := lvldb.New(ctx.String(dataDirFlag.Name), lvldb.Options{})
	if err != nil {
		return err
	}
	defer db.Close()

	l := ledger.New(db)
	stakeInfo, err := l.GetStakeInfo(*contract)
	if err != nil {
		return err
	}
	if stakeInfo == nil {
		return errors.WithStack(stake.ErrNoStakeExists)
	}
	delegateInfo, err := l.GetDelegateInfo(*contract)
	if err != nil {
		return err
	}
	if delegateInfo == nil {
		return errors.WithStack(stake.ErrNoStakeExists)
	}

	fmt.Printf(`Contract     %v
Reputation   %v
Block height %v
Stake score  %v
Owner        %v
Delegate to  %v
Delegated at %v
`,
		contract,
		stakeInfo.Reputation,
		stakeInfo.BlockHeight,
		stakeInfo.StakeScore.Dec(),
		delegateInfo.Owner,
		delegateInfo.DelegateTo,
		delegateInfo.DelegateAt,
	)
	return nil
}
