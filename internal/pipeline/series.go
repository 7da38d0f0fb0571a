package pipeline

import (
	"encoding/binary"
	"fmt"
)

// seriesStage turns the coefficient vector into a compact byte series:
// consecutive coefficients are delta encoded (zigzag for the sign) and
// written as varints, so the mostly-small, slowly-moving values of a
// typical intent collapse to one byte each.
type seriesStage struct{}

func (seriesStage) Name() string { return "number-series" }

func (seriesStage) Forward(c *Carrier) error {
	c.Series = EncodeSeries(c.Coeffs)
	return nil
}

func (seriesStage) Inverse(c *Carrier) error {
	coeffs, err := DecodeSeries(c.Series)
	if err != nil {
		return err
	}
	c.Coeffs = coeffs
	return nil
}

// EncodeSeries delta-encodes the coefficients into a varint byte series
// prefixed with the coefficient count.
func EncodeSeries(coeffs []uint64) []byte {
	buf := make([]byte, 0, len(coeffs)*2+2)
	var scratch [binary.MaxVarintLen64]byte

	n := binary.PutUvarint(scratch[:], uint64(len(coeffs)))
	buf = append(buf, scratch[:n]...)

	var prev uint64
	for _, v := range coeffs {
		delta := int64(v - prev)
		n := binary.PutUvarint(scratch[:], zigzag(delta))
		buf = append(buf, scratch[:n]...)
		prev = v
	}
	return buf
}

// DecodeSeries reverses EncodeSeries.
func DecodeSeries(series []byte) ([]uint64, error) {
	count, n := binary.Uvarint(series)
	if n <= 0 {
		return nil, fmt.Errorf("malformed series header")
	}
	if count > uint64(len(series)) {
		return nil, fmt.Errorf("implausible series length %d", count)
	}
	series = series[n:]

	coeffs := make([]uint64, 0, count)
	var prev uint64
	for i := uint64(0); i < count; i++ {
		z, n := binary.Uvarint(series)
		if n <= 0 {
			return nil, fmt.Errorf("truncated series at coefficient %d", i)
		}
		series = series[n:]
		prev += uint64(unzigzag(z))
		coeffs = append(coeffs, prev)
	}
	if len(series) != 0 {
		return nil, fmt.Errorf("%d trailing bytes after series", len(series))
	}
	return coeffs, nil
}

func zigzag(v int64) uint64 {
	return uint64((v << 1) ^ (v >> 63))
}

func unzigzag(z uint64) int64 {
	return int64(z>>1) ^ -int64(z&1)
}
