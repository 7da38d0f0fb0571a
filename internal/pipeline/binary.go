package pipeline

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/internal/fec"
)

// MaxFrameBytes is the hard ceiling on an encoded frame, parity included.
// It doubles as the denominator when reporting compression ratios.
const MaxFrameBytes = 8192

// FrameVersion identifies this wire layout.
const FrameVersion = 1

var frameMagic = [2]byte{0x52, 0x4D} // "RM"

const flagTierExplicit = 0x01

// Header is the self-describing frame header recovered during decode.
type Header struct {
	Tier         entities.Tier
	TierExplicit bool
	Type         entities.MessageType
}

// binaryStage serializes the number series into the final wire frame:
//
//	magic(2) version(1) flags(1) tier(1) type(1) parity(1)
//	payloadLen(uvarint) payload crc32(4)
//
// with Reed-Solomon parity wrapped around the whole frame by the fec layer.
type binaryStage struct{}

func (binaryStage) Name() string { return "binary" }

func (binaryStage) Forward(c *Carrier) error {
	frame, err := BuildFrame(Header{
		Tier:         c.Tier,
		TierExplicit: c.TierExplicit,
		Type:         c.Type,
	}, c.Series)
	if err != nil {
		return err
	}
	c.Binary = frame
	return nil
}

func (binaryStage) Inverse(c *Carrier) error {
	header, series, err := ParseFrame(c.Binary)
	if err != nil {
		return err
	}
	c.Tier = header.Tier
	c.TierExplicit = header.TierExplicit
	c.Type = header.Type
	c.Series = series
	return nil
}

// BuildFrame assembles and parity-wraps the wire frame.
func BuildFrame(h Header, payload []byte) ([]byte, error) {
	tier := entities.TierIndex(h.Tier)
	if tier < 0 {
		return nil, fmt.Errorf("cannot frame unknown tier %q", h.Tier)
	}

	var flags byte
	if h.TierExplicit {
		flags |= flagTierExplicit
	}

	frame := make([]byte, 0, len(payload)+16)
	frame = append(frame, frameMagic[0], frameMagic[1], FrameVersion, flags,
		byte(tier), byte(h.Type), fec.ParityBytes)

	var scratch [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(scratch[:], uint64(len(payload)))
	frame = append(frame, scratch[:n]...)
	frame = append(frame, payload...)

	sum := crc32.ChecksumIEEE(frame)
	frame = binary.BigEndian.AppendUint32(frame, sum)

	encoded := fec.Encode(frame)
	if len(encoded) > MaxFrameBytes {
		return nil, fmt.Errorf("frame size %d exceeds ceiling %d", len(encoded), MaxFrameBytes)
	}
	return encoded, nil
}

// ParseFrame strips parity, verifies the header and checksum, and returns
// the payload. Any mismatch means the input was not produced by this codec
// or was corrupted beyond recovery.
func ParseFrame(data []byte) (Header, []byte, error) {
	if len(data) == 0 || len(data) > MaxFrameBytes {
		return Header{}, nil, fmt.Errorf("frame size %d out of range", len(data))
	}

	frame, ok := fec.Decode(data)
	if !ok {
		return Header{}, nil, fmt.Errorf("parity recovery failed")
	}
	if len(frame) < 12 {
		return Header{}, nil, fmt.Errorf("frame too short: %d bytes", len(frame))
	}
	if frame[0] != frameMagic[0] || frame[1] != frameMagic[1] {
		return Header{}, nil, fmt.Errorf("bad magic")
	}
	if frame[2] != FrameVersion {
		return Header{}, nil, fmt.Errorf("unsupported frame version %d", frame[2])
	}
	if frame[6] != fec.ParityBytes {
		return Header{}, nil, fmt.Errorf("parity width %d does not match codec", frame[6])
	}

	sum := binary.BigEndian.Uint32(frame[len(frame)-4:])
	if crc32.ChecksumIEEE(frame[:len(frame)-4]) != sum {
		return Header{}, nil, fmt.Errorf("checksum mismatch")
	}

	payloadLen, n := binary.Uvarint(frame[7:])
	if n <= 0 {
		return Header{}, nil, fmt.Errorf("malformed payload length")
	}
	payloadStart := 7 + n
	payloadEnd := payloadStart + int(payloadLen)
	if payloadEnd != len(frame)-4 {
		return Header{}, nil, fmt.Errorf("payload length %d does not match frame", payloadLen)
	}

	header := Header{
		Tier:         entities.TierAt(int(frame[4])),
		TierExplicit: frame[3]&flagTierExplicit != 0,
		Type:         entities.MessageType(frame[5]),
	}
	return header, frame[payloadStart:payloadEnd], nil
}
