package assets

import "embed"

//go:embed defaults/*
var Embedded embed.FS

// DefaultsDir is the root of the files exported by "transcripts init".
const DefaultsDir = "defaults"

// DefaultConfigAsset is the default config, path INSIDE Embedded.
const DefaultConfigAsset = "defaults/transcripts.yaml"

// SampleVTTAsset is a small lesson transcript, handy to try the parser.
const SampleVTTAsset = "defaults/sample.vtt"
