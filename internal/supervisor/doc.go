// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

/*
Package supervisor runs the scrobbler's long-lived services under suture v4.

# Overview

Services are grouped into three layers so a failure in one does not restart
the others:

	RootSupervisor ("mdblist-scrobbler")
	├── HostSupervisor ("host-layer")
	│   └── kodi.Listener
	├── SessionSupervisor ("session-layer")
	│   └── monitor.Monitor
	└── APISupervisor ("api-layer")
	    └── services.HTTPServerService (if metrics.enabled)

A listener that loses Kodi keeps reconnecting on its own; the supervisor only
steps in when Serve returns unexpectedly or panics. The monitor keeps its
session state across restarts because the state lives on the Monitor value,
not in Serve.

# Logging

Supervisor events go through sutureslog into the slog logger passed to
NewSupervisorTree, which main wires to zerolog via logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddHostService(listener)
	tree.AddSessionService(mon)
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Metrics.Addr, 5*time.Second))
	return tree.Serve(ctx)
*/
package supervisor
