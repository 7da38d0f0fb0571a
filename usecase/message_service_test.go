package usecase

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/internal/perf"
	"github.com/rasoomlabs/rasoom/repository"
)

type recordingDispatcher struct {
	mu       sync.Mutex
	messages []*entities.RasoomMessage
}

func (d *recordingDispatcher) Dispatch(message *entities.RasoomMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, message)
	return nil
}

func newTestService(t *testing.T) (*MessageService, *recordingDispatcher, *perf.Monitor) {
	t.Helper()
	logger := zaptest.NewLogger(t)
	dispatcher := &recordingDispatcher{}
	monitor := perf.NewMonitor()
	service := NewMessageService(
		NewCodec(logger),
		repository.NewMemoryMessageRepository(),
		dispatcher,
		monitor,
		logger,
	)
	return service, dispatcher, monitor
}

func TestSubmitEncodesArchivesAndDispatches(t *testing.T) {
	service, dispatcher, monitor := newTestService(t)

	msg, err := service.Submit(context.Background(), "sensor-7", entities.TierDomain, testGesture(), testAffect())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if msg.ID == "" {
		t.Error("submit returned empty message ID")
	}
	if msg.Tier != entities.TierDomain {
		t.Errorf("message tier %v, expected domain", msg.Tier)
	}
	if len(msg.Frame) == 0 {
		t.Error("message frame is empty")
	}

	if len(dispatcher.messages) != 1 || dispatcher.messages[0].ID != msg.ID {
		t.Errorf("dispatcher saw %d messages", len(dispatcher.messages))
	}
	if monitor.Trials() != 1 {
		t.Errorf("monitor recorded %d trials, expected 1", monitor.Trials())
	}
}

func TestSubmitDerivedTier(t *testing.T) {
	service, _, _ := newTestService(t)

	gesture := testGesture()
	gesture.Pressure = 0.1 // mandra band routes to micro

	msg, err := service.Submit(context.Background(), "sensor-7", "", gesture, testAffect())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if msg.Tier != entities.TierMicro {
		t.Errorf("derived tier %v, expected micro", msg.Tier)
	}
}

func TestReceiveRoundTrip(t *testing.T) {
	service, _, _ := newTestService(t)

	msg, err := service.Submit(context.Background(), "sensor-7", entities.TierPrime, testGesture(), testAffect())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	intent, err := service.Receive(context.Background(), "agent-3", msg.Frame)
	if err != nil {
		t.Fatalf("receive failed: %v", err)
	}
	if intent.Tier != entities.TierPrime {
		t.Errorf("received tier %v, expected prime", intent.Tier)
	}
}

func TestReceiveDropsGarbage(t *testing.T) {
	service, _, monitor := newTestService(t)

	if _, err := service.Receive(context.Background(), "agent-3", []byte("junk frame")); err != ErrUndecodable {
		t.Errorf("expected ErrUndecodable, got %v", err)
	}
	if monitor.Trials() != 0 {
		t.Errorf("garbage frame recorded %d trials", monitor.Trials())
	}
}

func TestConcurrentSubmissionsCountTrials(t *testing.T) {
	service, _, monitor := newTestService(t)

	const trials = 100
	var wg sync.WaitGroup
	errs := make(chan error, trials)
	for i := 0; i < trials; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gesture := testGesture()
			gesture.Velocity = float64(i%10) / 10
			_, err := service.Submit(context.Background(), "sensor-7", entities.TierDomain, gesture, testAffect())
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent submit failed: %v", err)
		}
	}

	if got := monitor.Snapshot().Trials; got != trials {
		t.Errorf("monitor counted %d trials, expected %d", got, trials)
	}
}
