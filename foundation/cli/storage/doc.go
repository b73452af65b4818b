// File: doc.go
// Title: CLI Storage Package Documentation
// Description: Persisted command scripts for CLI sessions.
// Author: msto63
// Version: v0.2.0
// Created: 2026-09-29
// Modified: 2026-10-15

/*
Package storage records command lines and replays them later.

A Script sits on top of a Store, which keeps numbered entries. RAMStore
holds them in memory; SQLiteStore keeps them in a database file and plays
the role of the NVM3 area on a device, so a script defined once survives a
restart.

Definition mode is a session redirect: after Define every completed line
is appended to the script instead of being executed, until the end string
(default "end") arrives. Execute replays the stored lines through the
session's normal dispatch, one line per tick in a cooperative session or
all at once otherwise. A replay covers the lines stored when it started;
lines appended while it runs wait for the next Execute.

Commands builds the user facing group for a script:

	reg.Add(storage.Commands(script, "ram"))
	// ram_define, ram_list, ram_clear, ram_execute
*/
package storage
