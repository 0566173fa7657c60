package keyswitch

// KeyswitchKeyParams describes the keyswitching key expected for a given parameter set.
type KeyswitchKeyParams struct {
	DecompBaseLog      int
	DecompLevelCount   int
	InputLweDimension  int
	OutputLweDimension int
	CiphertextModulus  uint64
}

func (p KeyswitchKeyParams) matches(baseLog, levelCount, outputLweSize int, modulus uint64) bool {
	return p.DecompBaseLog == baseLog &&
		p.DecompLevelCount == levelCount &&
		p.OutputLweDimension+1 == outputLweSize &&
		p.CiphertextModulus == modulus
}

func (k *LweKeyswitchKey) IsConformant(params KeyswitchKeyParams) bool {
	return params.matches(k.decompBaseLog, k.decompLevelCount, k.outputLweSize, k.ciphertextModulus) &&
		len(k.data) == params.InputLweDimension*params.DecompLevelCount*(params.OutputLweDimension+1)
}

func (k *SeededLweKeyswitchKey) IsConformant(params KeyswitchKeyParams) bool {
	return params.matches(k.decompBaseLog, k.decompLevelCount, k.outputLweSize, k.ciphertextModulus) &&
		len(k.data) == params.InputLweDimension*params.DecompLevelCount
}
