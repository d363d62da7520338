// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"net"
	"net/http"
	_ "net/http/pprof"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dagnet/dagd/config"
	"github.com/dagnet/dagd/dbaccess"
	"github.com/dagnet/dagd/signal"
	"github.com/dagnet/dagd/util/panics"
	"github.com/dagnet/dagd/version"
)

const dbDirname = "db"

// dagdMain is the real main function for dagd. It is invoked from main so
// that deferred cleanup runs before os.Exit is reached.
func dagdMain() error {
	interrupt := signal.InterruptListener()

	err := config.LoadAndSetActiveConfig()
	if err != nil {
		return err
	}
	cfg := config.ActiveConfig()
	defer panics.HandlePanic(log, nil)

	log.Infof("Version %s", version.Version())

	// Enable http profiling server if requested.
	if cfg.Profile != "" {
		spawn(func() {
			listenAddr := net.JoinHostPort("", cfg.Profile)
			log.Infof("Profile server listening on %s", listenAddr)
			profileRedirect := http.RedirectHandler("/debug/pprof", http.StatusSeeOther)
			http.Handle("/", profileRedirect)
			log.Errorf("%+v", http.ListenAndServe(listenAddr, nil))
		})
	}

	databaseContext, err := openDB(cfg)
	if err != nil {
		log.Errorf("Could not open database: %+v", err)
		return err
	}
	defer func() {
		log.Infof("Gracefully shutting down the database...")
		err := databaseContext.Close()
		if err != nil {
			log.Errorf("Failed to close the database: %+v", err)
		}
	}()

	// Return now if an interrupt signal was triggered during database load.
	if signal.InterruptRequested(interrupt) {
		return nil
	}

	dagd, err := newDagd(databaseContext)
	if err != nil {
		log.Errorf("Unable to start dagd: %+v", err)
		return err
	}

	defer func() {
		log.Infof("Gracefully shutting down dagd...")
		err := dagd.stop()
		if err != nil {
			log.Errorf("Error stopping dagd: %+v", err)
		}
		log.Infof("Dagd shutdown complete")
	}()

	dagd.start()

	// Wait until the interrupt signal is received from an OS signal.
	<-interrupt
	return nil
}

func openDB(cfg *config.Config) (*dbaccess.DatabaseContext, error) {
	dbPath := filepath.Join(cfg.DataDir, dbDirname)
	log.Infof("Loading database from '%s'", dbPath)
	return dbaccess.New(dbPath)
}

func main() {
	// Use all processor cores.
	runtime.GOMAXPROCS(runtime.NumCPU())

	if err := dagdMain(); err != nil {
		os.Exit(1)
	}
}
