// Package cli provides the interactive fitclub command-line client.
//
// It presents the public catalog (memberships, workouts, trainers, classes)
// and the signed-in user's dashboard through a read-eval-print loop. The
// prompt follows the session store: it shows the signed-in user's first name
// and announces a session that the server ended.
//
// Protected commands (dashboard, subscribe) go through requireAuth, which
// sends anonymous users through login first.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
