// Package scan finds the stem files of a song inside one folder and
// loads them into a session. File names are matched against the fixed
// stem vocabulary; the folder layout is otherwise uninterpreted.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stemplay/stemplay"
	"github.com/stemplay/stemplay/decode"
)

// Folder scans dir for one file per stem keyword. A name containing
// "(no KEY)" never matches KEY; a parenthesized "(KEY)" beats a bare
// substring match; within the same priority the first directory entry
// wins. Matching is case-insensitive.
func Folder(dir string) (map[stemplay.TrackName]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan %v: %w", dir, err)
	}
	found := make(map[stemplay.TrackName]string)
	for _, key := range stemplay.TrackNames {
		var matches []string
		for _, entry := range entries {
			if entry.IsDir() || !decode.IsAudioFile(entry.Name()) {
				continue
			}
			name := strings.ToLower(entry.Name())
			switch {
			case strings.Contains(name, "(no "+string(key)+")"):
			case strings.Contains(name, "("+string(key)+")"):
				matches = append([]string{entry.Name()}, matches...)
			case strings.Contains(name, string(key)):
				matches = append(matches, entry.Name())
			}
		}
		if len(matches) > 0 {
			found[key] = filepath.Join(dir, matches[0])
		}
	}
	return found, nil
}

// LoadDir replaces the session with the stems found in dir. Decode
// failures are logged and skipped, the rest of the folder still loads;
// the store ends up with zero, some, or all stems. Returns the number
// of tracks loaded. The store is cleared first, so the swap is
// wholesale from the observers' point of view.
func LoadDir(store *stemplay.Store, dir string, log *logrus.Logger) (int, error) {
	found, err := Folder(dir)
	if err != nil {
		return 0, err
	}
	store.Clear()
	loaded := 0
	for _, key := range stemplay.TrackNames {
		path, ok := found[key]
		if !ok {
			continue
		}
		samples, rate, err := decode.Decode(path)
		if err != nil {
			log.WithFields(logrus.Fields{"track": key, "path": path}).
				WithError(err).Warn("Skipping undecodable stem")
			continue
		}
		if sessionRate := store.SampleRate(); sessionRate != 0 && sessionRate != rate {
			// played at the session rate; no resampling
			log.WithFields(logrus.Fields{
				"track": key, "rate": rate, "sessionRate": sessionRate,
			}).Warn("Sample rate mismatch")
		}
		store.Load(key, samples, rate)
		loaded++
		log.WithFields(logrus.Fields{
			"track":  key,
			"title":  decode.Title(path),
			"frames": len(samples),
			"rate":   rate,
		}).Info("Loaded stem")
	}
	return loaded, nil
}
