package application

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"mixerboard/internal/domain"
	"mixerboard/internal/domain/entities"
	"mixerboard/internal/engine"
	"mixerboard/internal/ports/output"
)

// BoardService wires the participation engine to the event store: every
// mutating operation runs inside the store's transaction so concurrent
// clients never clobber each other, and every outcome comes back with a
// localized user-facing message.
type BoardService struct {
	store      output.EventStore
	engine     *engine.Engine
	images     output.ImageStore
	translator output.T
	locale     string
}

// NewBoardService creates a BoardService. images may be nil when the image
// feature is disabled.
func NewBoardService(
	store output.EventStore,
	eng *engine.Engine,
	images output.ImageStore,
	translator output.T,
	locale string,
) *BoardService {
	return &BoardService{
		store:      store,
		engine:     eng,
		images:     images,
		translator: translator,
		locale:     locale,
	}
}

// ListEvents returns the board in display order (by start timestamp).
func (s *BoardService) ListEvents(ctx context.Context) ([]entities.Event, error) {
	col, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	return col.Sorted(), nil
}

// CreateEvent validates and commits a new event. When imagePath names a
// local file and images are enabled, the image is uploaded first and the
// event record references it; if the create is then rejected (e.g. quota),
// the uploaded image is removed best-effort.
func (s *BoardService) CreateEvent(ctx context.Context, in engine.CreateInput, imagePath, deviceID string) (entities.Event, string, error) {
	if imagePath != "" && s.engine.Policy().AllowImages && s.images != nil {
		ref, err := s.uploadImage(ctx, imagePath)
		if err != nil {
			return entities.Event{}, s.message(err), err
		}
		in.ImageRef = ref
	}

	var created entities.Event
	_, err := s.store.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		next, ev, err := s.engine.CreateEvent(col, in, deviceID)
		if err != nil {
			return nil, err
		}
		created = ev
		return next, nil
	})
	if err != nil {
		if in.ImageRef != "" {
			s.removeImage(in.ImageRef)
		}
		return entities.Event{}, s.message(err), err
	}
	return created, s.translator.T(s.locale, "msg.created", nil), nil
}

// JoinEvent adds a participant to an event.
func (s *BoardService) JoinEvent(ctx context.Context, eventID string, in engine.PersonInput, deviceID string) (entities.Person, string, error) {
	var joined entities.Person
	_, err := s.store.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		next, p, err := s.engine.JoinEvent(col, eventID, in, deviceID)
		if err != nil {
			return nil, err
		}
		joined = p
		return next, nil
	})
	if err != nil {
		return entities.Person{}, s.message(err), err
	}
	return joined, s.translator.T(s.locale, "msg.joined", nil), nil
}

// LeaveEvent removes the requesting device's own participant entry.
func (s *BoardService) LeaveEvent(ctx context.Context, eventID, personID, deviceID string) (string, error) {
	_, err := s.store.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		return s.engine.LeaveEvent(col, eventID, personID, deviceID)
	})
	if err != nil {
		return s.message(err), err
	}
	return s.translator.T(s.locale, "msg.left", nil), nil
}

// DeleteEvent removes an event created from the requesting device. An
// attached image is cleaned up after the commit; its failure never undoes
// the deletion.
func (s *BoardService) DeleteEvent(ctx context.Context, eventID, deviceID string) (string, error) {
	var removed entities.Event
	_, err := s.store.Transact(ctx, func(col entities.Collection) (entities.Collection, error) {
		next, ev, err := s.engine.DeleteEvent(col, eventID, deviceID)
		if err != nil {
			return nil, err
		}
		removed = ev
		return next, nil
	})
	if err != nil {
		return s.message(err), err
	}
	if removed.ImageRef != "" {
		s.removeImage(removed.ImageRef)
	}
	return s.translator.T(s.locale, "msg.deleted", nil), nil
}

// Watch subscribes to change notifications. Only shared-mode stores
// support it.
func (s *BoardService) Watch(ctx context.Context, onChange func([]entities.Event)) (func(), error) {
	watchable, ok := s.store.(output.WatchableStore)
	if !ok {
		return nil, errors.New("change notifications are only available in shared mode")
	}
	return watchable.Subscribe(ctx, func(col entities.Collection) {
		onChange(col.Sorted())
	})
}

func (s *BoardService) uploadImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return s.images.Put(ctx, filepath.Base(path), f)
}

func (s *BoardService) removeImage(ref string) {
	if s.images == nil {
		return
	}
	if err := s.images.Remove(context.Background(), ref); err != nil {
		log.Printf("image cleanup failed (ref=%s): %v", ref, err)
	}
}

// message maps an operation error to its localized user-facing text.
func (s *BoardService) message(err error) string {
	if r, ok := domain.AsRejection(err); ok {
		return s.translator.T(s.locale, r.MessageKey(), nil)
	}
	return s.translator.T(s.locale, "reject.store_failure", nil)
}
