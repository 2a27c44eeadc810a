// Copyright (c) 2026 The PoCS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var dataDirFlag = cli.StringFlag{
	Name:  "data-dir",
	Value: defaultDataDir(),
	Usage: "directory of the stake ledger database",
}
