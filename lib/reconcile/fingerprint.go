// Copyright 2026 The Aegis Authors
// SPDX-License-Identifier: Apache-2.0

package reconcile

import (
	"encoding/binary"
	"math"

	"github.com/zeebo/blake3"

	"github.com/aegis-vision/aegis/lib/api"
)

// Fingerprint is a 32-byte BLAKE3 digest of a rendered slice's
// content. Equal fingerprints mean equal content, so a render can be
// skipped without walking the old data.
type Fingerprint [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation guarantees that identical byte content in two different
// slices (say a log line that happens to equal a serialized detection
// list) can never produce matching fingerprints. The byte values are
// the ASCII encoding of the domain name, zero-padded to 32 bytes, so
// the keys stay readable in a debugger.
type domainKey [32]byte

var (
	detectionsDomainKey = domainKey{
		'a', 'e', 'g', 'i', 's', '.', 'r', 'e', 'n', 'd', 'e', 'r', '.',
		'd', 'e', 't', 'e', 'c', 't', 'i', 'o', 'n', 's', 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	logsDomainKey = domainKey{
		'a', 'e', 'g', 'i', 's', '.', 'r', 'e', 'n', 'd', 'e', 'r', '.',
		'l', 'o', 'g', 's', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// FingerprintDetections digests an ordered detection list. Every field
// that affects rendering participates: label, confidence, and the
// danger flag. Fields are length-prefixed so adjacent values cannot
// alias across boundaries.
func FingerprintDetections(detections []api.Detection) Fingerprint {
	hasher := newKeyedHasher(detectionsDomainKey)
	var scratch [8]byte
	for _, detection := range detections {
		writeLengthPrefixed(hasher, []byte(detection.Label))
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(detection.Confidence))
		hasher.Write(scratch[:])
		if detection.IsDangerous {
			hasher.Write([]byte{1})
		} else {
			hasher.Write([]byte{0})
		}
	}
	var result Fingerprint
	copy(result[:], hasher.Sum(nil))
	return result
}

// FingerprintLogs digests an ordered log line list.
func FingerprintLogs(logs []string) Fingerprint {
	hasher := newKeyedHasher(logsDomainKey)
	for _, line := range logs {
		writeLengthPrefixed(hasher, []byte(line))
	}
	var result Fingerprint
	copy(result[:], hasher.Sum(nil))
	return result
}

func newKeyedHasher(key domainKey) *blake3.Hasher {
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		// NewKeyed only fails on a wrong key length, which the
		// domainKey type rules out.
		panic("reconcile: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return hasher
}

func writeLengthPrefixed(hasher *blake3.Hasher, data []byte) {
	var length [8]byte
	binary.LittleEndian.PutUint64(length[:], uint64(len(data)))
	hasher.Write(length[:])
	hasher.Write(data)
}
