package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/oszuidwest/zwfm-ledmeter/internal/types"
	"github.com/oszuidwest/zwfm-ledmeter/internal/util"
	"golang.org/x/mod/semver"
)

const (
	githubRepo = "oszuidwest/zwfm-ledmeter"

	releaseFirstCheck = 30 * time.Second
	releaseInterval   = 24 * time.Hour
	releaseTimeout    = 30 * time.Second
	releaseRetryMin   = 1 * time.Minute
	releaseRetryMax   = 1 * time.Hour
)

// VersionChecker looks up the latest published release so the monitor can
// show that an update is available.
type VersionChecker struct {
	url string

	mu     sync.RWMutex
	latest string
}

// NewVersionChecker creates a version checker. Call Start to begin polling.
func NewVersionChecker() *VersionChecker {
	return &VersionChecker{
		url: "https://api.github.com/repos/" + githubRepo + "/releases/latest",
	}
}

// Start polls for releases in the background until ctx is done. Failed
// lookups are retried with backoff; a dev build never polls.
func (vc *VersionChecker) Start(ctx context.Context) {
	if normalizeVersion(Version) == "dev" {
		return
	}
	go func() {
		retry := util.NewBackoff(releaseRetryMin, releaseRetryMax)
		wait := releaseFirstCheck
		for sleepCtx(ctx, wait) {
			if err := vc.check(ctx); err != nil {
				wait = retry.Next()
				slog.Debug("release check failed", "error", err, "retry_in", wait)
				continue
			}
			retry.Reset()
			wait = releaseInterval
		}
	}()
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// check fetches the latest release and remembers its version. A repository
// without releases, or whose latest release is a draft or prerelease,
// leaves the known version unchanged.
func (vc *VersionChecker) check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, releaseTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, vc.url, nil)
	if err != nil {
		return util.WrapError("build release request", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", "zwfm-ledmeter/"+Version)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return util.WrapError("fetch latest release", err)
	}
	defer util.SafeClose(resp.Body, "release response")

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil
	default:
		return fmt.Errorf("fetch latest release: unexpected status %s", resp.Status)
	}

	var release struct {
		TagName    string `json:"tag_name"`
		Draft      bool   `json:"draft"`
		Prerelease bool   `json:"prerelease"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return util.WrapError("decode latest release", err)
	}
	if release.Draft || release.Prerelease || release.TagName == "" {
		return nil
	}

	vc.mu.Lock()
	vc.latest = normalizeVersion(release.TagName)
	vc.mu.Unlock()
	return nil
}

// GetInfo returns the build and release info for the monitor and --version.
func (vc *VersionChecker) GetInfo() types.VersionInfo {
	vc.mu.RLock()
	latest := vc.latest
	vc.mu.RUnlock()

	info := types.VersionInfo{
		Current:   normalizeVersion(Version),
		Latest:    latest,
		Commit:    Commit,
		BuildTime: util.FormatHumanTime(BuildTime),
	}
	info.UpdateAvail = latest != "" && isNewerVersion(latest, info.Current)
	return info
}

// normalizeVersion removes the 'v' prefix and surrounding whitespace.
func normalizeVersion(v string) string {
	return strings.TrimPrefix(strings.TrimSpace(v), "v")
}

// isNewerVersion reports whether latest is a higher semver than current.
// A current version that is not semver, such as "dev", is never outdated.
func isNewerVersion(latest, current string) bool {
	l, c := "v"+normalizeVersion(latest), "v"+normalizeVersion(current)
	if !semver.IsValid(c) {
		return false
	}
	return semver.Compare(l, c) > 0
}
