package keyswitch

import (
	"github.com/smartcontractkit/tfheartifacts/internal/codec"
	"github.com/smartcontractkit/tfheartifacts/internal/versioning"
)

// Shape V0 of LweKeyswitchKey: same fields, levels stored in reverse order.
type lweKeyswitchKeyV0 struct {
	key *LweKeyswitchKey
}

// Shape V0 of SeededLweKeyswitchKey: no level order marker.
type seededLweKeyswitchKeyV0 struct {
	key *SeededLweKeyswitchKey
}

var LweKeyswitchKeyVersions = versioning.New("LweKeyswitchKey",
	versioning.Historical(
		func(src codec.Source) lweKeyswitchKeyV0 { return lweKeyswitchKeyV0{decodeLweKeyswitchKey(src)} },
		versioning.Infallible(upgradeLweKeyswitchKeyV0),
		versioning.Current(
			func(target codec.Target, k *LweKeyswitchKey) { k.encode(target) },
			decodeLweKeyswitchKey,
		)))

var SeededLweKeyswitchKeyVersions = versioning.New("SeededLweKeyswitchKey",
	versioning.Historical(
		func(src codec.Source) seededLweKeyswitchKeyV0 { return seededLweKeyswitchKeyV0{decodeSeededV0Fields(src)} },
		versioning.Infallible(upgradeSeededLweKeyswitchKeyV0),
		versioning.Current(
			func(target codec.Target, k *SeededLweKeyswitchKey) { k.encode(target) },
			decodeSeededLweKeyswitchKey,
		)))

func upgradeLweKeyswitchKeyV0(v lweKeyswitchKeyV0) *LweKeyswitchKey {
	k := v.key
	reverseLevels(k.data, k.decompLevelCount, k.outputLweSize)
	return k
}

func upgradeSeededLweKeyswitchKeyV0(v seededLweKeyswitchKeyV0) *SeededLweKeyswitchKey {
	k := v.key
	k.levelsReversed = true
	return k
}
