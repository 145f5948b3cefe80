package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/strikesynth/strike"
	"github.com/strikesynth/strike/engine"
	"github.com/strikesynth/strike/midi/rtmidi"
	"github.com/strikesynth/strike/oto"
	"github.com/strikesynth/strike/version"
)

func main() {
	bankPath := flag.String("bank", "bank.yml", "Sample bank manifest to load.")
	presetPath := flag.String("preset", "", "Preset file to apply at startup.")
	midiPrefix := flag.String("midi", "", "Open the first MIDI input whose name starts with this prefix.")
	firstMidi := flag.Bool("first", false, "Open the first available MIDI input.")
	listMidi := flag.Bool("l", false, "List available MIDI inputs and exit.")
	polyphony := flag.Int("poly", 0, "Voice pool size; 0 means the default of one voice per MIDI note.")
	recordPath := flag.String("w", "", "Record the session to this .wav file on exit.")
	pcm := flag.Bool("c", false, "Convert recorded audio to 16-bit signed PCM.")
	debugLog := flag.Bool("d", false, "Verbose logging.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}

	log := zap.Must(zap.NewProduction())
	if *debugLog {
		log = zap.Must(zap.NewDevelopment())
	}
	defer log.Sync()

	broker := engine.NewBroker()
	midiContext := rtmidi.NewContext(broker, log)
	defer midiContext.Close()
	if *listMidi {
		for device := range midiContext.InputDevices {
			fmt.Println(device)
		}
		return
	}

	bank, err := strike.LoadSampleBank(*bankPath, log)
	if err != nil {
		log.Fatal("could not load sample bank", zap.Error(err))
	}
	for instrument, sample := range bank.Instruments {
		log.Info("loaded instrument",
			zap.Int("instrument", instrument),
			zap.String("name", sample.Name),
			zap.Int("frames", sample.Frames()))
	}

	params := engine.NewParams()
	control := engine.NewController(broker, log)
	if *presetPath != "" {
		preset, err := strike.LoadPreset(*presetPath)
		if err != nil {
			log.Fatal("could not load preset", zap.Error(err))
		}
		log.Info("applying preset", zap.String("name", preset.Name))
		control.ApplyPreset(preset)
	}

	synth := engine.NewEngine(bank, params, broker, log, engine.Options{
		Polyphony: *polyphony,
		Tap:       *recordPath != "",
	})
	var recorder *engine.Recorder
	if *recordPath != "" {
		recorder = engine.NewRecorder(broker)
		go recorder.Run()
	}

	if err := midiContext.TryToOpenBy(*midiPrefix, *firstMidi); err != nil {
		log.Warn("no MIDI input opened", zap.Error(err))
	}

	audioContext, err := oto.NewContext()
	if err != nil {
		log.Fatal("could not acquire audio context", zap.Error(err))
	}
	player := audioContext.Play(synth)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info("shutting down")

	player.Close()
	audioContext.Close()
	if recorder != nil {
		broker.CloseTap <- struct{}{}
		select {
		case <-broker.FinishedTap:
		case <-time.After(3 * time.Second):
			log.Warn("recorder did not finish in time")
		}
		writeRecording(recorder.Buffer(), *recordPath, *pcm, log)
	}
}

func writeRecording(buffer strike.AudioBuffer, path string, pcm16 bool, log *zap.Logger) {
	contents, err := buffer.Wav(pcm16)
	if err != nil {
		log.Error("could not encode recording", zap.Error(err))
		return
	}
	if err := os.WriteFile(path, contents, 0644); err != nil {
		log.Error("could not write recording", zap.Error(err))
		return
	}
	log.Info("recording written", zap.String("path", path), zap.Int("frames", len(buffer)))
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Play a sample bank with live MIDI input.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
