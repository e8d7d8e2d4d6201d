package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	hospitalsIndexKey = "directory:hospitals"
)

// Store persists the directory as JSON documents in Redis, with set indexes
// for listing hospitals and a hospital's doctors.
type Store struct {
	redis *redis.Client
}

// NewStore creates a directory store.
func NewStore(redisClient *redis.Client) *Store {
	if redisClient == nil {
		panic("directory: redis client required")
	}
	return &Store{redis: redisClient}
}

func hospitalKey(id string) string {
	return fmt.Sprintf("directory:hospital:%s", id)
}

func doctorKey(id string) string {
	return fmt.Sprintf("directory:doctor:%s", id)
}

func hospitalDoctorsKey(hospitalID string) string {
	return fmt.Sprintf("directory:hospital:%s:doctors", hospitalID)
}

// UpsertHospital creates or replaces a hospital document.
func (s *Store) UpsertHospital(ctx context.Context, h *Hospital) error {
	if strings.TrimSpace(h.ID) == "" {
		return ErrMissingID
	}
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("directory: marshal hospital: %w", err)
	}
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, hospitalKey(h.ID), data, 0)
		pipe.SAdd(ctx, hospitalsIndexKey, h.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("directory: save hospital: %w", err)
	}
	return nil
}

// UpsertDoctor creates or replaces a doctor and keeps the per-hospital index in sync.
func (s *Store) UpsertDoctor(ctx context.Context, d *Doctor) error {
	if strings.TrimSpace(d.ID) == "" || strings.TrimSpace(d.HospitalID) == "" {
		return ErrMissingID
	}
	previous, err := s.GetDoctor(ctx, d.ID)
	if err != nil && !errors.Is(err, ErrDoctorNotFound) {
		return err
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("directory: marshal doctor: %w", err)
	}
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if previous != nil && previous.HospitalID != d.HospitalID {
			pipe.SRem(ctx, hospitalDoctorsKey(previous.HospitalID), d.ID)
		}
		pipe.Set(ctx, doctorKey(d.ID), data, 0)
		pipe.SAdd(ctx, hospitalDoctorsKey(d.HospitalID), d.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("directory: save doctor: %w", err)
	}
	return nil
}

// Seed loads every hospital and doctor in the document.
func (s *Store) Seed(ctx context.Context, seed *Seed) error {
	for i := range seed.Hospitals {
		if err := s.UpsertHospital(ctx, &seed.Hospitals[i]); err != nil {
			return err
		}
	}
	for i := range seed.Doctors {
		if err := s.UpsertDoctor(ctx, &seed.Doctors[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetHospital fetches one hospital.
func (s *Store) GetHospital(ctx context.Context, id string) (*Hospital, error) {
	var h Hospital
	if err := s.getJSON(ctx, hospitalKey(id), &h); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrHospitalNotFound
		}
		return nil, fmt.Errorf("directory: get hospital: %w", err)
	}
	return &h, nil
}

// GetDoctor fetches one doctor.
func (s *Store) GetDoctor(ctx context.Context, id string) (*Doctor, error) {
	var d Doctor
	if err := s.getJSON(ctx, doctorKey(id), &d); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("directory: get doctor: %w", err)
	}
	return &d, nil
}

// ListHospitals returns every hospital ordered by name.
func (s *Store) ListHospitals(ctx context.Context) ([]*Hospital, error) {
	ids, err := s.redis.SMembers(ctx, hospitalsIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("directory: list hospitals: %w", err)
	}
	docs, err := s.mget(ctx, ids, hospitalKey)
	if err != nil {
		return nil, err
	}
	hospitals := make([]*Hospital, 0, len(docs))
	for _, raw := range docs {
		var h Hospital
		if err := json.Unmarshal(raw, &h); err != nil {
			return nil, fmt.Errorf("directory: unmarshal hospital: %w", err)
		}
		hospitals = append(hospitals, &h)
	}
	sort.Slice(hospitals, func(i, j int) bool { return hospitals[i].Name < hospitals[j].Name })
	return hospitals, nil
}

// ListDoctors returns a hospital's doctors ordered by name.
func (s *Store) ListDoctors(ctx context.Context, hospitalID string) ([]*Doctor, error) {
	ids, err := s.redis.SMembers(ctx, hospitalDoctorsKey(hospitalID)).Result()
	if err != nil {
		return nil, fmt.Errorf("directory: list doctors: %w", err)
	}
	docs, err := s.mget(ctx, ids, doctorKey)
	if err != nil {
		return nil, err
	}
	doctors := make([]*Doctor, 0, len(docs))
	for _, raw := range docs {
		var d Doctor
		if err := json.Unmarshal(raw, &d); err != nil {
			return nil, fmt.Errorf("directory: unmarshal doctor: %w", err)
		}
		doctors = append(doctors, &d)
	}
	sort.Slice(doctors, func(i, j int) bool { return doctors[i].FullName < doctors[j].FullName })
	return doctors, nil
}

func (s *Store) getJSON(ctx context.Context, key string, dst any) error {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("directory: unmarshal %s: %w", key, err)
	}
	return nil
}

// mget loads documents for ids, skipping index entries whose document is gone.
func (s *Store) mget(ctx context.Context, ids []string, keyFn func(string) string) ([][]byte, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyFn(id)
	}
	values, err := s.redis.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("directory: mget: %w", err)
	}
	out := make([][]byte, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		out = append(out, []byte(str))
	}
	return out, nil
}
