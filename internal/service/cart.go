package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bikerent/bikerent-api/internal/domain"
)

const (
	cartSessionKey      = "cart"
	dateRangeSessionKey = "dateRange"
)

// CartSession is the slice of a web session the cart needs.
// sessions.Session from gin-contrib satisfies it.
type CartSession interface {
	Get(key interface{}) interface{}
	Set(key interface{}, val interface{})
	Delete(key interface{})
	Save() error
}

type CartBikeLookup interface {
	GetBike(ctx context.Context, id uint) (domain.Bike, error)
	BikesByIDs(ctx context.Context, ids []uint) ([]domain.Bike, error)
}

type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Dates parses both ends of the range.
func (r DateRange) Dates() (time.Time, time.Time, error) {
	from, err := time.Parse(domain.DateLayout, r.From)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("time.Parse -> %w", err)
	}
	to, err := time.Parse(domain.DateLayout, r.To)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("time.Parse -> %w", err)
	}

	return from, to, nil
}

// CartService keeps the visitor's basket in their session: a map of bike id
// to the daily price seen when the bike was added, plus the chosen dates.
// Build one per request.
type CartService struct {
	session CartSession
	bikes   CartBikeLookup
	now     func() time.Time
}

func NewCartService(session CartSession, bikes CartBikeLookup) *CartService {
	return &CartService{
		session: session,
		bikes:   bikes,
		now:     time.Now,
	}
}

// Add stores the bike with its current price. Adding it again refreshes the price.
func (s *CartService) Add(ctx context.Context, bikeID uint) error {
	bike, err := s.bikes.GetBike(ctx, bikeID)
	if err != nil {
		return fmt.Errorf("s.bikes.GetBike -> %w", err)
	}

	items := s.items()
	items[strconv.FormatUint(uint64(bike.ID), 10)] = bike.Price

	return s.saveItems(items)
}

// Remove drops the bike from the basket. Removing an absent bike is a no-op.
func (s *CartService) Remove(bikeID uint) error {
	items := s.items()
	delete(items, strconv.FormatUint(uint64(bikeID), 10))

	return s.saveItems(items)
}

// Content returns the live bikes behind the basket, ordered by id. Bikes
// deleted since they were added are left out.
func (s *CartService) Content(ctx context.Context) ([]domain.Bike, error) {
	ids := s.BikeIDs()
	if len(ids) == 0 {
		return []domain.Bike{}, nil
	}

	bikes, err := s.bikes.BikesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("s.bikes.BikesByIDs -> %w", err)
	}

	return bikes, nil
}

// Price sums the snapshotted daily prices. It is not multiplied by the
// number of rental days.
func (s *CartService) Price() int {
	total := 0
	for _, price := range s.items() {
		total += price
	}

	return total
}

func (s *CartService) BikeIDs() []uint {
	items := s.items()

	ids := make([]uint, 0, len(items))
	for key := range items {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, uint(id))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (s *CartService) IsEmpty() bool {
	return len(s.items()) == 0
}

// DateRange returns the stored range, or today and tomorrow when none was set.
func (s *CartService) DateRange() DateRange {
	if raw, ok := s.session.Get(dateRangeSessionKey).(string); ok {
		var r DateRange
		if err := json.Unmarshal([]byte(raw), &r); err == nil && r.From != "" && r.To != "" {
			return r
		}
	}

	today := s.now()
	return DateRange{
		From: today.Format(domain.DateLayout),
		To:   today.AddDate(0, 0, 1).Format(domain.DateLayout),
	}
}

// SetDateRange stores both dates. Nothing happens when either is nil.
func (s *CartService) SetDateRange(from, to *time.Time) error {
	if from == nil || to == nil {
		return nil
	}

	raw, err := json.Marshal(DateRange{
		From: from.Format(domain.DateLayout),
		To:   to.Format(domain.DateLayout),
	})
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	s.session.Set(dateRangeSessionKey, string(raw))

	return s.save()
}

// Clear empties the basket. The date range stays.
func (s *CartService) Clear() error {
	s.session.Delete(cartSessionKey)

	return s.save()
}

func (s *CartService) items() map[string]int {
	items := map[string]int{}

	raw, ok := s.session.Get(cartSessionKey).(string)
	if !ok || raw == "" {
		return items
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return map[string]int{}
	}

	return items
}

func (s *CartService) saveItems(items map[string]int) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	s.session.Set(cartSessionKey, string(raw))

	return s.save()
}

func (s *CartService) save() error {
	if err := s.session.Save(); err != nil {
		return fmt.Errorf("s.session.Save -> %w", err)
	}

	return nil
}
