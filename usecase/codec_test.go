package usecase

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/internal/pipeline"
)

func testGesture() entities.GestureFeatures {
	return entities.GestureFeatures{
		Velocity:  0.6,
		Pressure:  0.4,
		Direction: entities.DirectionRight,
		Trajectory: []entities.Point{
			{X: 0, Y: 0}, {X: 1, Y: 0.2}, {X: 2, Y: 0.3},
		},
	}
}

func testAffect() entities.AffectiveState {
	return entities.AffectiveState{
		"curiosity":  0.7,
		"confidence": 0.5,
		"joy":        0.3,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec := NewCodec(zap.NewNop())

	for _, tier := range entities.Tiers {
		frame, err := codec.Encode(testGesture(), testAffect(), tier)
		if err != nil {
			t.Fatalf("tier %v: encode failed: %v", tier, err)
		}
		if len(frame) > pipeline.MaxFrameBytes {
			t.Fatalf("tier %v: frame size %d exceeds ceiling", tier, len(frame))
		}

		intent := codec.Decode(frame)
		if intent == nil {
			t.Fatalf("tier %v: decode returned nil for a valid frame", tier)
		}
		if !intent.TierExplicit {
			t.Errorf("tier %v: explicit tier not flagged", tier)
		}
		if intent.Tier != tier {
			t.Errorf("explicit tier %v recovered as %v", tier, intent.Tier)
		}
		if intent.Direction != entities.DirectionRight {
			t.Errorf("direction recovered as %v", intent.Direction)
		}
	}
}

func TestEncodeDerivesTierFromOctave(t *testing.T) {
	codec := NewCodec(zap.NewNop())

	// High pressure puts the sequence in the tara band, which routes to
	// the prime tier.
	gesture := testGesture()
	gesture.Pressure = 0.9

	frame, err := codec.Encode(gesture, testAffect(), "")
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	intent := codec.Decode(frame)
	if intent == nil {
		t.Fatal("decode returned nil")
	}
	if intent.TierExplicit {
		t.Error("derived tier flagged as explicit")
	}
	if intent.Tier != entities.TierPrime {
		t.Errorf("tara-band message routed to %v, expected prime", intent.Tier)
	}
	if intent.Octave != entities.OctaveTara {
		t.Errorf("octave recovered as %v", intent.Octave)
	}
}

func TestEncodeClampingIdempotent(t *testing.T) {
	codec := NewCodec(zap.NewNop())

	over := testGesture()
	over.Velocity = 1.5
	exact := testGesture()
	exact.Velocity = 1.0

	frameOver, err := codec.Encode(over, testAffect(), entities.TierDomain)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	frameExact, err := codec.Encode(exact, testAffect(), entities.TierDomain)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !bytes.Equal(frameOver, frameExact) {
		t.Error("velocity 1.5 and 1.0 produced different frames")
	}
}

func TestDocumentedScenario(t *testing.T) {
	codec := NewCodec(zap.NewNop())

	gesture := entities.GestureFeatures{Velocity: 0.9, Pressure: 0.9, Direction: entities.DirectionUp}
	affect := entities.AffectiveState{"confidence": 0.9, "determination": 0.8, "energy": 0.9}

	frame, err := codec.Encode(gesture, affect, entities.TierDomain)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	intent := codec.Decode(frame)
	if intent == nil {
		t.Fatal("decode returned nil")
	}

	if intent.Tier != entities.TierDomain {
		t.Errorf("tier recovered as %v, expected domain", intent.Tier)
	}
	if intent.VelocityBucket != 2 {
		t.Errorf("velocity bucket %d, expected high", intent.VelocityBucket)
	}
	for _, token := range intent.Swaras {
		if entities.SwaraDegree(token) < 6 {
			t.Errorf("lower-register token %v for a high-velocity upward gesture", token)
		}
	}
	if intent.Gamaka < 0.7 {
		t.Errorf("gamaka %v, expected >= 0.7 for uniformly high affect", intent.Gamaka)
	}
}

func TestDecodeRecoversAffectIntent(t *testing.T) {
	codec := NewCodec(zap.NewNop())

	frame, err := codec.Encode(testGesture(), testAffect(), entities.TierMicro)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	intent := codec.Decode(frame)
	if intent == nil {
		t.Fatal("decode returned nil")
	}

	want := testAffect()
	if len(intent.Affect) != len(want) {
		t.Fatalf("affect dimensions %v after round trip", intent.Affect)
	}
	for name, v := range want {
		got, ok := intent.Affect[name]
		if !ok {
			t.Errorf("dimension %q lost in round trip", name)
			continue
		}
		if delta := got - v; delta > 0.04 || delta < -0.04 {
			t.Errorf("dimension %q drifted from %v to %v", name, v, got)
		}
	}
}

func TestDecodeSurvivesTransmissionCorruption(t *testing.T) {
	codec := NewCodec(zap.NewNop())

	frame, err := codec.Encode(testGesture(), testAffect(), entities.TierDomain)
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	clean := codec.Decode(frame)
	corrupted := make([]byte, len(frame))
	copy(corrupted, frame)
	corrupted[3] ^= 0x5a
	corrupted[len(corrupted)-5] ^= 0x81

	recovered := codec.Decode(corrupted)
	if recovered == nil {
		t.Fatal("decode failed on correctably corrupted frame")
	}
	if diff := cmp.Diff(clean, recovered); diff != "" {
		t.Errorf("corrupted-frame intent differs (-clean +corrupted):\n%s", diff)
	}
}

func TestDecodeForeignInputReturnsNil(t *testing.T) {
	codec := NewCodec(zap.NewNop())

	rng := rand.New(rand.NewSource(11))
	inputs := [][]byte{
		nil,
		{},
		[]byte("not a frame at all"),
		make([]byte, 512),
	}
	noise := make([]byte, 300)
	rng.Read(noise)
	inputs = append(inputs, noise)

	for _, input := range inputs {
		if intent := codec.Decode(input); intent != nil {
			t.Errorf("%d-byte foreign input decoded to %+v", len(input), intent)
		}
	}
}

func TestConcurrentEncodeDecode(t *testing.T) {
	codec := NewCodec(zap.NewNop())

	done := make(chan error, 50)
	for i := 0; i < 50; i++ {
		go func(i int) {
			gesture := testGesture()
			gesture.Velocity = float64(i) / 50
			frame, err := codec.Encode(gesture, testAffect(), entities.TierDomain)
			if err != nil {
				done <- err
				return
			}
			if codec.Decode(frame) == nil {
				done <- ErrUndecodable
				return
			}
			done <- nil
		}(i)
	}
	for i := 0; i < 50; i++ {
		if err := <-done; err != nil {
			t.Errorf("concurrent trial failed: %v", err)
		}
	}
}
