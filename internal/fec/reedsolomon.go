// Package fec implements a systematic Reed-Solomon code over GF(2^8) used to
// protect Rasoom frames against transmission corruption. It is a reusable
// byte-level primitive with no knowledge of the frame layout above it.
//
// Payloads are split into blocks of up to 239 data bytes, each followed by 16
// parity bytes, so every 255-byte block tolerates up to 8 corrupted bytes at
// unknown positions. Decoding reports success through a boolean; callers must
// never trust the returned bytes when it is false.
package fec

// ParityBytes is the number of parity bytes appended to every block.
const ParityBytes = 16

const (
	blockSize    = 255
	dataPerBlock = blockSize - ParityBytes
	maxErrors    = ParityBytes / 2
)

// genPoly is the generator polynomial, highest-degree coefficient first.
var genPoly []byte

func init() {
	genPoly = []byte{1}
	for i := 0; i < ParityBytes; i++ {
		genPoly = polyMul(genPoly, []byte{1, gfExp(i)})
	}
}

// EncodedLen returns the size of Encode's output for a payload of n bytes.
func EncodedLen(n int) int {
	if n == 0 {
		return 0
	}
	blocks := (n + dataPerBlock - 1) / dataPerBlock
	return n + blocks*ParityBytes
}

// Encode appends Reed-Solomon parity to payload, block by block. The input
// is not modified.
func Encode(payload []byte) []byte {
	out := make([]byte, 0, EncodedLen(len(payload)))
	for start := 0; start < len(payload); start += dataPerBlock {
		end := start + dataPerBlock
		if end > len(payload) {
			end = len(payload)
		}
		chunk := payload[start:end]
		out = append(out, chunk...)
		out = append(out, parity(chunk)...)
	}
	return out
}

// parity computes the 16 parity bytes for one data chunk: the remainder of
// chunk(x) * x^16 divided by the generator polynomial.
func parity(chunk []byte) []byte {
	rem := make([]byte, ParityBytes)
	for _, b := range chunk {
		factor := b ^ rem[0]
		copy(rem, rem[1:])
		rem[ParityBytes-1] = 0
		if factor == 0 {
			continue
		}
		for i := 0; i < ParityBytes; i++ {
			// genPoly[0] is 1, so the remainder update starts at index 1
			rem[i] ^= gfMul(genPoly[i+1], factor)
		}
	}
	return rem
}

// Decode strips parity from data and corrects up to 8 corrupted bytes per
// 255-byte block. It returns the recovered payload and whether every block
// was recovered. On failure the returned bytes are best effort and must not
// be trusted.
func Decode(data []byte) ([]byte, bool) {
	if len(data) == 0 {
		return nil, true
	}
	payload := make([]byte, 0, len(data))
	ok := true
	for start := 0; start < len(data); start += blockSize {
		end := start + blockSize
		if end > len(data) {
			end = len(data)
		}
		block := data[start:end]
		if len(block) <= ParityBytes {
			// Not even room for one data byte: structurally invalid.
			return payload, false
		}
		corrected, blockOK := correctBlock(block)
		if !blockOK {
			ok = false
		}
		payload = append(payload, corrected[:len(corrected)-ParityBytes]...)
	}
	return payload, ok
}

// correctBlock runs syndrome decoding (Berlekamp-Massey, Chien search,
// Forney) on a single block and returns the corrected block.
func correctBlock(block []byte) ([]byte, bool) {
	synd := make([]byte, ParityBytes)
	clean := true
	for i := range synd {
		synd[i] = polyEval(block, gfExp(i))
		if synd[i] != 0 {
			clean = false
		}
	}
	if clean {
		return block, true
	}

	locator, errCount, ok := berlekampMassey(synd)
	if !ok {
		return block, false
	}

	positions := chienSearch(locator, len(block))
	if len(positions) != errCount {
		return block, false
	}

	corrected := make([]byte, len(block))
	copy(corrected, block)
	if !forney(corrected, synd, locator, positions) {
		return block, false
	}

	// Corrections must cancel every syndrome, otherwise the error pattern
	// exceeded the code's capacity and the "correction" is garbage.
	for i := 0; i < ParityBytes; i++ {
		if polyEval(corrected, gfExp(i)) != 0 {
			return block, false
		}
	}
	return corrected, true
}

// berlekampMassey computes the error locator polynomial (lowest-degree
// coefficient first, constant term 1) from the syndromes. It fails when the
// implied error count exceeds the correction capacity.
func berlekampMassey(synd []byte) ([]byte, int, bool) {
	locator := []byte{1}
	prev := []byte{1}
	degree := 0
	shift := 1
	prevDiscrepancy := byte(1)

	for n := 0; n < len(synd); n++ {
		d := synd[n]
		for i := 1; i <= degree && i < len(locator); i++ {
			d ^= gfMul(locator[i], synd[n-i])
		}
		if d == 0 {
			shift++
			continue
		}
		coef := gfDiv(d, prevDiscrepancy)
		if 2*degree <= n {
			saved := make([]byte, len(locator))
			copy(saved, locator)
			locator = polyAddShifted(locator, prev, coef, shift)
			degree = n + 1 - degree
			prev = saved
			prevDiscrepancy = d
			shift = 1
		} else {
			locator = polyAddShifted(locator, prev, coef, shift)
			shift++
		}
	}
	if degree > maxErrors {
		return nil, 0, false
	}
	return locator, degree, true
}

// polyAddShifted returns c + coef * x^shift * b, all lowest-degree first.
func polyAddShifted(c, b []byte, coef byte, shift int) []byte {
	need := len(b) + shift
	out := make([]byte, len(c))
	copy(out, c)
	if need > len(out) {
		out = append(out, make([]byte, need-len(out))...)
	}
	for i, bb := range b {
		out[i+shift] ^= gfMul(coef, bb)
	}
	return out
}

// chienSearch returns the byte positions (indexes into the block) whose
// locator values are roots of the error locator polynomial.
func chienSearch(locator []byte, blockLen int) []int {
	var positions []int
	for exp := 0; exp < blockLen; exp++ {
		// Error at exponent exp means alpha^-exp is a root.
		var v byte
		x := gfInv(gfExp(exp))
		pow := byte(1)
		for _, c := range locator {
			v ^= gfMul(c, pow)
			pow = gfMul(pow, x)
		}
		if v == 0 {
			positions = append(positions, blockLen-1-exp)
		}
	}
	return positions
}

// forney computes error magnitudes and applies them to block in place.
func forney(block, synd, locator []byte, positions []int) bool {
	// Error evaluator: omega(x) = S(x) * locator(x) mod x^ParityBytes,
	// lowest-degree first.
	omega := make([]byte, ParityBytes)
	for i, s := range synd {
		if s == 0 {
			continue
		}
		for j, c := range locator {
			if i+j < ParityBytes {
				omega[i+j] ^= gfMul(s, c)
			}
		}
	}

	// Formal derivative of the locator: odd-power coefficients shift down.
	deriv := make([]byte, 0, len(locator)/2+1)
	for i := 1; i < len(locator); i += 2 {
		deriv = append(deriv, locator[i])
	}

	for _, pos := range positions {
		exp := len(block) - 1 - pos
		x := gfExp(exp)        // X_j
		xi := gfInv(x)         // X_j^-1, the locator root
		num := evalLow(omega, xi)
		den := evalLowSquared(deriv, xi)
		if den == 0 {
			return false
		}
		block[pos] ^= gfMul(x, gfDiv(num, den))
	}
	return true
}

// evalLow evaluates a lowest-degree-first polynomial at x.
func evalLow(p []byte, x byte) byte {
	var y byte
	pow := byte(1)
	for _, c := range p {
		y ^= gfMul(c, pow)
		pow = gfMul(pow, x)
	}
	return y
}

// evalLowSquared evaluates the derivative coefficients at x, where the i-th
// entry is the coefficient of x^(2i) after the odd-power shift.
func evalLowSquared(p []byte, x byte) byte {
	x2 := gfMul(x, x)
	var y byte
	pow := byte(1)
	for _, c := range p {
		y ^= gfMul(c, pow)
		pow = gfMul(pow, x2)
	}
	return y
}
