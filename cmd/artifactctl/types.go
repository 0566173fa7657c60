package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/smartcontractkit/tfheartifacts/ciphertextlist"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
	"github.com/smartcontractkit/tfheartifacts/keyswitch"
	"github.com/smartcontractkit/tfheartifacts/safeserialization"
	"github.com/smartcontractkit/tfheartifacts/zk"
)

// Decodes an artifact of a known type and returns a one-line summary of the decoded value.
type verifyFunc func(r io.Reader, cfg safeserialization.NonConformantDeserializationConfig) (string, error)

func verifier[T any](versions *versioning.Versions[T], describe func(T) string) verifyFunc {
	return func(r io.Reader, cfg safeserialization.NonConformantDeserializationConfig) (string, error) {
		value, err := safeserialization.DeserializeUncheckedFrom(r, versions, cfg)
		if err != nil {
			return "", err
		}
		return describe(value), nil
	}
}

var artifactTypes = map[string]verifyFunc{
	keyswitch.LweKeyswitchKeyVersions.Name(): verifier(keyswitch.LweKeyswitchKeyVersions,
		func(k *keyswitch.LweKeyswitchKey) string {
			return fmt.Sprintf("input dimension %d, output size %d, base log %d, %d levels",
				k.InputLweDimension(), k.OutputLweSize(), k.DecompBaseLog(), k.DecompLevelCount())
		}),
	keyswitch.SeededLweKeyswitchKeyVersions.Name(): verifier(keyswitch.SeededLweKeyswitchKeyVersions,
		func(k *keyswitch.SeededLweKeyswitchKey) string {
			return fmt.Sprintf("input dimension %d, output size %d, base log %d, %d levels, levels reversed: %t",
				k.InputLweDimension(), k.OutputLweSize(), k.DecompBaseLog(), k.DecompLevelCount(), k.LevelsReversed())
		}),
	ciphertextlist.Versions.Name(): verifier(ciphertextlist.Versions,
		func(l *ciphertextlist.CompactCiphertextList) string {
			p := l.Params()
			return fmt.Sprintf("%d ciphertexts, LWE dimension %d, message modulus %d, carry modulus %d",
				l.Len(), p.LweDimension, p.MessageModulus, p.CarryModulus)
		}),
	zk.Versions.Name(): verifier(zk.Versions,
		func(p *zk.PublicParams) string {
			fingerprint := p.Fingerprint()
			return fmt.Sprintf("%d points, LWE dimension %d, %d messages, fingerprint %s",
				len(p.GList), p.LweDimension, p.MessageCount, hex.EncodeToString(fingerprint[:]))
		}),
}

func typeNames() string {
	var names []string
	for name := range artifactTypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}
