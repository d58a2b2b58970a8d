package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/stemplay/stemplay"
	"github.com/stemplay/stemplay/cmd"
	"github.com/stemplay/stemplay/config"
	"github.com/stemplay/stemplay/oto"
	"github.com/stemplay/stemplay/player"
	"github.com/stemplay/stemplay/scan"
	"github.com/stemplay/stemplay/version"
)

var (
	configPath  = flag.String("config", "", "path to the settings `file`; defaults to the per-user config directory")
	wavOut      = flag.String("w", "", "render the mix offline to a .wav `file` and exit without opening the audio device")
	rawOut      = flag.String("r", "", "render the mix offline to a headerless .raw `file` and exit")
	pcm         = flag.Bool("c", false, "convert exported audio to 16-bit signed PCM instead of float32")
	midiInput   = flag.String("midi-input", "", "connect MIDI input to matching device name prefix")
	noWatch     = flag.Bool("no-watch", false, "do not reload when the stem folder changes on disk")
	versionFlag = flag.Bool("v", false, "print version")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.String())
		os.Exit(0)
	}
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(0)
	}

	cfgPath := *configPath
	if cfgPath == "" {
		if configDir, err := os.UserConfigDir(); err == nil {
			cfgPath = filepath.Join(configDir, "stemplay", "config.yml")
		}
	}
	cfg, err := config.Load(cfgPath)
	log := cfg.Logger()
	if err != nil {
		log.WithError(err).Warn("Using default settings")
	}

	folder := flag.Arg(0)
	store := stemplay.NewStore()
	loaded, err := scan.LoadDir(store, folder, log)
	if err != nil {
		log.WithError(err).Fatal("Could not load stem folder")
	}
	if loaded == 0 {
		log.WithField("dir", folder).Fatal("No stems found in folder")
	}
	printTracks(store)

	pcm16 := cfg.ExportPCM16
	if isFlagPassed("c") {
		pcm16 = *pcm
	}
	if *wavOut != "" || *rawOut != "" {
		exportOffline(store, pcm16, log)
		return
	}

	audioContext, err := oto.NewContext(store.SampleRate())
	if err != nil {
		log.WithError(err).Fatal("Could not acquire audio device")
	}
	defer audioContext.Close()

	broker := player.NewBroker()
	pl := player.New(store, audioContext, broker)
	defer pl.Stop()

	midiContext := cmd.NewMidiContext(store, log)
	defer midiContext.Close()
	prefix := cfg.MIDIInput
	if isFlagPassed("midi-input") {
		prefix = *midiInput
	}
	if prefix != "" {
		if err := midiContext.TryOpenByPrefix(prefix); err != nil {
			log.WithError(err).Warn("MIDI control surface unavailable")
		}
	}

	if cfg.WatchFolder && !*noWatch {
		watcher, err := scan.Watch(folder, log, func() {
			if _, err := scan.LoadDir(store, folder, log); err != nil {
				log.WithError(err).Error("Reload failed")
			}
		})
		if err != nil {
			log.WithError(err).Warn("Folder watching unavailable")
		} else {
			defer watcher.Close()
		}
	}

	go drainUI(broker, log)
	reporter := player.NewReporter(pl, player.DefaultReportInterval)
	defer reporter.Close()
	go reporter.Run(func(playing bool, percent float64) {
		if playing {
			fmt.Printf("\r  %5.1f%% ", percent)
		}
	})

	runCommands(store, pl, pcm16, log)
}

// drainUI consumes per-block transport snapshots; the on-screen
// position comes from the reporter, so only silenced-block diagnostics
// are interesting here.
func drainUI(broker *player.Broker, log *logrus.Logger) {
	for msg := range broker.ToUI {
		if msg.Err != nil {
			log.WithError(msg.Err).Error("Audio block silenced")
		}
	}
}

func runCommands(store *stemplay.Store, pl *player.Player, pcm16 bool, log *logrus.Logger) {
	fmt.Println("commands: p play/pause | s stop | k <pct> seek | m <stem> mute | o <stem> solo | g <stem> <gain> | e <file> export | l list | q quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "p":
			if err := pl.TogglePlay(); err != nil {
				log.WithError(err).Error("Could not start playback")
			}
		case "s":
			if err := pl.Stop(); err != nil {
				log.WithError(err).Error("Could not stop playback")
			}
		case "k":
			if len(fields) == 2 {
				if percent, err := strconv.ParseFloat(fields[1], 64); err == nil {
					pl.Seek(percent)
				}
			}
		case "m":
			if len(fields) == 2 && !store.ToggleMute(stemplay.TrackName(fields[1])) {
				fmt.Println("no such stem:", fields[1])
			}
		case "o":
			if len(fields) == 2 && !store.ToggleSolo(stemplay.TrackName(fields[1])) {
				fmt.Println("no such stem:", fields[1])
			}
		case "g":
			if len(fields) == 3 {
				gain, err := strconv.ParseFloat(fields[2], 32)
				if err != nil || !store.SetGain(stemplay.TrackName(fields[1]), float32(gain)) {
					fmt.Println("usage: g <stem> <gain 0..1>")
				}
			}
		case "e":
			if len(fields) == 2 {
				exporter := &stemplay.Exporter{Store: store, PCM16: pcm16}
				if err := exporter.Export(fields[1]); err != nil {
					log.WithError(err).Error("Export failed")
				} else {
					fmt.Println("exported", fields[1])
				}
			}
		case "l":
			printTracks(store)
		case "q":
			return
		}
	}
}

func exportOffline(store *stemplay.Store, pcm16 bool, log *logrus.Logger) {
	exporter := &stemplay.Exporter{Store: store, PCM16: pcm16}
	if *wavOut != "" {
		if err := exporter.Export(*wavOut); err != nil {
			log.WithError(err).Fatal("Export failed")
		}
		fmt.Println("exported", *wavOut)
	}
	if *rawOut != "" {
		mix, err := exporter.Mixdown()
		if err != nil {
			log.WithError(err).Fatal("Export failed")
		}
		data, err := stemplay.Raw(mix, pcm16)
		if err != nil {
			log.WithError(err).Fatal("Export failed")
		}
		if err := os.WriteFile(*rawOut, data, 0644); err != nil {
			log.WithError(err).Fatal("Export failed")
		}
		fmt.Println("exported", *rawOut)
	}
}

// printTracks shows one line per stem with a coarse waveform sketch.
const sketchWidth = 60

func printTracks(store *stemplay.Store) {
	rate := store.SampleRate()
	for _, t := range store.Tracks() {
		seconds := 0.0
		if rate > 0 {
			seconds = float64(t.FrameCount()) / float64(rate)
		}
		fmt.Printf("%-12s %7.1fs gain %.2f  %s\n",
			t.Name(), seconds, t.Gain(), sketch(t.Samples()))
	}
}

func sketch(samples []float32) string {
	levels := []byte(" .:-=+*#")
	points := stemplay.Decimate(samples, sketchWidth)
	var b strings.Builder
	for _, v := range points {
		if v < 0 {
			v = -v
		}
		idx := int(v * float32(len(levels)))
		if idx >= len(levels) {
			idx = len(levels) - 1
		}
		b.WriteByte(levels[idx])
	}
	return b.String()
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Stem player: mix and export the separated tracks of one song.\nUsage: %s [flags] <stem folder>\n", os.Args[0])
	flag.PrintDefaults()
}
