package fec

// Arithmetic over GF(2^8) with the primitive polynomial x^8+x^4+x^3+x^2+1
// (0x11d) and generator alpha = 2. Tables are built once at package init.

const fieldSize = 256

var (
	expTable [fieldSize * 2]byte // doubled so gfMul can skip a mod
	logTable [fieldSize]byte
)

func init() {
	x := 1
	for i := 0; i < fieldSize-1; i++ {
		expTable[i] = byte(x)
		logTable[x] = byte(i)
		x <<= 1
		if x&0x100 != 0 {
			x ^= 0x11d
		}
	}
	for i := fieldSize - 1; i < len(expTable); i++ {
		expTable[i] = expTable[i-(fieldSize-1)]
	}
}

func gfMul(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}
	return expTable[int(logTable[a])+int(logTable[b])]
}

// gfDiv divides a by b. b must be nonzero.
func gfDiv(a, b byte) byte {
	if a == 0 {
		return 0
	}
	return expTable[int(logTable[a])+fieldSize-1-int(logTable[b])]
}

// gfInv returns the multiplicative inverse of a nonzero element.
func gfInv(a byte) byte {
	return expTable[fieldSize-1-int(logTable[a])]
}

// gfExp returns alpha^n for n >= 0.
func gfExp(n int) byte {
	return expTable[n%(fieldSize-1)]
}

// polyEval evaluates a polynomial (highest-degree coefficient first) at x.
func polyEval(p []byte, x byte) byte {
	var y byte
	for _, c := range p {
		y = gfMul(y, x) ^ c
	}
	return y
}

// polyMul multiplies two polynomials (highest-degree first).
func polyMul(a, b []byte) []byte {
	out := make([]byte, len(a)+len(b)-1)
	for i, ca := range a {
		if ca == 0 {
			continue
		}
		for j, cb := range b {
			out[i+j] ^= gfMul(ca, cb)
		}
	}
	return out
}
