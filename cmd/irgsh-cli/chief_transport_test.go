package main

import (
	"errors"
	"strings"
	"testing"

	"irgsh/internal/chief"
	"irgsh/internal/testsupport"
)

func TestSubmitOverHTTPPrintsPipeline(t *testing.T) {
	fc := testsupport.NewFakeChief(t, "pipe-123")
	home := testsupport.NewHome(t, testsupport.WithChiefAddress(fc.URL()), testsupport.WithHTTPTransport())

	out, _, err := runCLI(t, home, "submit", "--package", "http://pkg", "--source", "http://src")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requireLineContaining(t, out, fc.URL())
	requireLineContaining(t, out, "http://pkg")
	requireContains(t, out, "Pipeline: pipe-123")

	subs := fc.Submissions()
	if len(subs) != 1 {
		t.Fatalf("expected one submission, got %d", len(subs))
	}
	if subs[0]["packageUrl"] != "http://pkg" || subs[0]["sourceUrl"] != "http://src" || subs[0]["isExperimental"] != false {
		t.Fatalf("unexpected payload %v", subs[0])
	}
	if subs[0]["component"] != "main" {
		t.Fatalf("expected default component main, got %v", subs[0]["component"])
	}

	latest, err := testsupport.MustOpenHistory(t, home).Latest(t.Context())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.PipelineID != "pipe-123" {
		t.Fatalf("expected pipeline id in history, got %+v", latest)
	}
}

func TestStatusOverHTTP(t *testing.T) {
	fc := testsupport.NewFakeChief(t, "pipe-1", "FAILED")
	home := testsupport.NewHome(t, testsupport.WithChiefAddress(fc.URL()), testsupport.WithHTTPTransport())

	out, _, err := runCLI(t, home, "status", "pipe-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	line := requireLineContaining(t, out, "Pipeline pipe-1")
	requireContains(t, line, "[ERROR] Failed")
	if strings.Contains(out, "placeholder") {
		t.Fatalf("did not expect placeholder note, got %q", out)
	}

	_, _, err = runCLI(t, home, "status", "other")
	if !errors.Is(err, chief.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWatchOverHTTPFollowsUntilDone(t *testing.T) {
	fc := testsupport.NewFakeChief(t, "pipe-9", "STARTED", "DONE")
	home := testsupport.NewHome(t, testsupport.WithChiefAddress(fc.URL()), testsupport.WithHTTPTransport())

	out, _, err := runCLI(t, home, "watch", "pipe-9")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	requireContains(t, out, "Watching pipeline pipe-9")
	started := strings.Index(out, "[RUNNING] Started")
	done := strings.Index(out, "[OK] Done")
	if started < 0 || done < 0 || started > done {
		t.Fatalf("expected Started then Done, got %q", out)
	}
	if fc.Polls() != 2 {
		t.Fatalf("expected 2 polls, got %d", fc.Polls())
	}
}

func TestLogOverHTTP(t *testing.T) {
	fc := testsupport.NewFakeChief(t, "pipe-4", "DONE")
	fc.SetLog("pipe-4.build.log", "dpkg-buildpackage ok\n")
	fc.SetLog("pipe-4.repo.log", "reprepro includedsc ok\n")
	home := testsupport.NewHome(t, testsupport.WithChiefAddress(fc.URL()), testsupport.WithHTTPTransport())

	out, _, err := runCLI(t, home, "log", "pipe-4")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	requireContains(t, out, "== Build log ==")
	requireContains(t, out, "dpkg-buildpackage ok")
	requireContains(t, out, "== Repository log ==")
	requireContains(t, out, "reprepro includedsc ok")
}

func TestLogOverHTTPWhileRunning(t *testing.T) {
	fc := testsupport.NewFakeChief(t, "pipe-5", "STARTED")
	home := testsupport.NewHome(t, testsupport.WithChiefAddress(fc.URL()), testsupport.WithHTTPTransport())

	out, _, err := runCLI(t, home, "log", "pipe-5")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	requireContains(t, out, "not finished yet")
}

func TestSubmitOverHTTPSendsBranchesAndComponent(t *testing.T) {
	fc := testsupport.NewFakeChief(t, "pipe-77")
	home := testsupport.NewHome(t, testsupport.WithChiefAddress(fc.URL()), testsupport.WithHTTPTransport())

	_, _, err := runCLI(t, home, "submit",
		"--package", "http://pkg",
		"--package-branch", "debian/sid",
		"--source", "http://src",
		"--source-branch", "v2",
		"--component", "contrib",
		"--experimental",
	)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	subs := fc.Submissions()
	if len(subs) != 1 {
		t.Fatalf("expected one submission, got %d", len(subs))
	}
	got := subs[0]
	if got["packageBranch"] != "debian/sid" || got["sourceBranch"] != "v2" || got["component"] != "contrib" || got["isExperimental"] != true {
		t.Fatalf("unexpected payload %v", got)
	}
}

func TestLogOverHTTPDefaultsToLastPipeline(t *testing.T) {
	fc := testsupport.NewFakeChief(t, "pipe-last", "DONE")
	fc.SetLog("pipe-last.build.log", "build ok\n")
	fc.SetLog("pipe-last.repo.log", "repo ok\n")
	home := testsupport.NewHome(t, testsupport.WithChiefAddress(fc.URL()), testsupport.WithHTTPTransport())

	if _, _, err := runCLI(t, home, "log"); !errors.Is(err, errNoRecordedPipeline) {
		t.Fatalf("expected errNoRecordedPipeline before any submit, got %v", err)
	}

	if _, _, err := runCLI(t, home, "submit", "--package", "http://pkg"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	out, _, err := runCLI(t, home, "log")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	requireContains(t, out, "Fetching the logs of pipe-last")
	requireContains(t, out, "build ok")
	requireContains(t, out, "repo ok")

	out, _, err = runCLI(t, home, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Last pipeline: pipe-last")
}
