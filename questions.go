package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
)

const manifestName = "questions.json"

// loadQuestions builds the question queue from a directory of images. If the
// directory contains a questions.json manifest, coordinates come from there;
// otherwise each JPEG's GPS EXIF tags are read. A session cannot run with
// zero questions, so an empty result is an error.
func loadQuestions(cfg *Config, dir, imageBase string) ([]Question, error) {
	manifest := filepath.Join(dir, manifestName)
	if _, err := os.Stat(manifest); err == nil {
		return loadQuestionsFromManifest(manifest, imageBase)
	}

	return loadQuestionsFromExif(cfg, dir, imageBase)
}

type manifestEntry struct {
	Image     string  `json:"image"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func loadQuestionsFromManifest(name, imageBase string) ([]Question, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}

	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	questions := make([]Question, 0, len(entries))
	for _, e := range entries {
		if e.Image == "" {
			return nil, fmt.Errorf("%s: entry with empty image name", name)
		}
		if !validCoords(e.Latitude, e.Longitude) {
			return nil, fmt.Errorf("%s: invalid coordinates for %q", name, e.Image)
		}
		questions = append(questions, Question{
			ImageRef:  path.Join(imageBase, e.Image),
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
		})
	}

	if len(questions) == 0 {
		return nil, fmt.Errorf("%s contains no questions", name)
	}

	return questions, nil
}

func loadQuestionsFromExif(cfg *Config, dir, imageBase string) ([]Question, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var questions []Question

	for _, entry := range entries {
		if entry.IsDir() || !isJpeg(entry.Name()) {
			continue
		}

		lat, lon, err := readGPS(filepath.Join(dir, entry.Name()))
		if err != nil {
			logf(cfg, "LOAD: Skipping %s: %v", entry.Name(), err)
			continue
		}
		if !validCoords(lat, lon) {
			logf(cfg, "LOAD: Skipping %s: coordinates out of range", entry.Name())
			continue
		}

		questions = append(questions, Question{
			ImageRef:  path.Join(imageBase, entry.Name()),
			Latitude:  lat,
			Longitude: lon,
		})
	}

	if len(questions) == 0 {
		return nil, errors.New("no images with GPS metadata found in " + dir)
	}

	return questions, nil
}

func isJpeg(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return true
	}
	return false
}

func readGPS(name string) (lat, lon float64, err error) {
	f, err := os.Open(name)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return 0, 0, fmt.Errorf("no exif data: %w", err)
	}

	lat, lon, err = x.LatLong()
	if err != nil {
		return 0, 0, fmt.Errorf("no gps tags: %w", err)
	}

	return lat, lon, nil
}
