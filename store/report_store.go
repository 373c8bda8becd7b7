package store

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/edsotopublicidad-gif/Sotos-App/events"
	"github.com/edsotopublicidad-gif/Sotos-App/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrBadMonthKey = errors.New("month key must look like 2024-3 (year-month)")

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

var spanishWeekdays = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

// ReportStore derives the jefe's sales figures from paid orders, active and
// archived alike.
type ReportStore struct {
	db  *gorm.DB
	bus *events.Bus
	log *zap.Logger
}

func NewReportStore(db *gorm.DB, bus *events.Bus, log *zap.Logger) *ReportStore {
	return &ReportStore{db: db, bus: bus, log: log}
}

// SalesSummary carries the two headline figures of the report screen.
type SalesSummary struct {
	DailyTotal  float64 `json:"daily_total"`
	DailyCount  int     `json:"daily_count"`
	WeeklyTotal float64 `json:"weekly_total"`
	WeeklyCount int     `json:"weekly_count"`
}

// DayBucket groups one calendar day of sales, newest order first.
type DayBucket struct {
	Label  string         `json:"label"` // e.g. "lunes, 27 de mayo"
	Total  float64        `json:"total"`
	Orders []models.Order `json:"orders"`
}

// WeekBucket groups the days of one week of the month.
type WeekBucket struct {
	Week  int         `json:"week"` // week-of-month, Monday start
	Label string      `json:"label"`
	Total float64     `json:"total"`
	Days  []DayBucket `json:"days"`
}

// MonthBucket groups the weeks of one calendar month.
type MonthBucket struct {
	Year  int          `json:"year"`
	Month int          `json:"month"` // 1-12
	Label string       `json:"label"`
	Total float64      `json:"total"`
	Weeks []WeekBucket `json:"weeks"`
}

// paidUnion is the aggregator's input: active paid-equivalent orders plus
// the whole archive, de-duplicated by id so nothing is double-counted
// during an archive transition.
func (s *ReportStore) paidUnion() ([]models.Order, error) {
	var active []models.Order
	err := s.db.Preload("Items").
		Where("archived = ? AND (status = ? OR (is_paid = ? AND status IN ?))",
			false, models.StatusPagada, true,
			[]models.OrderStatus{models.StatusEntregada, models.StatusListaParaEntrega}).
		Find(&active).Error
	if err != nil {
		return nil, err
	}

	var archived []models.Order
	err = s.db.Preload("Items").Where("archived = ?", true).Find(&archived).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(active)+len(archived))
	union := make([]models.Order, 0, len(active)+len(archived))
	for _, order := range append(active, archived...) {
		if seen[order.ID] {
			continue
		}
		seen[order.ID] = true
		union = append(union, order)
	}
	return union, nil
}

// Summary computes today's and this week's totals. Weeks start Monday.
func (s *ReportStore) Summary(now time.Time) (SalesSummary, error) {
	orders, err := s.paidUnion()
	if err != nil {
		return SalesSummary{}, err
	}

	midnight := localMidnight(now)
	tomorrow := midnight.AddDate(0, 0, 1)
	weekStart := startOfWeek(midnight)
	weekEnd := weekStart.AddDate(0, 0, 7)

	var summary SalesSummary
	for _, order := range orders {
		t := order.LastUpdated
		if !t.Before(midnight) && t.Before(tomorrow) {
			summary.DailyTotal += order.Total
			summary.DailyCount++
		}
		if !t.Before(weekStart) && t.Before(weekEnd) {
			summary.WeeklyTotal += order.Total
			summary.WeeklyCount++
		}
	}
	return summary, nil
}

// Historical buckets every paid order into year/month, week-of-month and
// day, newest first at every level.
func (s *ReportStore) Historical() ([]MonthBucket, error) {
	orders, err := s.paidUnion()
	if err != nil {
		return nil, err
	}

	type dayKey struct{ year, month, week, day int }
	days := map[dayKey][]models.Order{}
	for _, order := range orders {
		t := order.LastUpdated
		if t.IsZero() {
			continue
		}
		key := dayKey{t.Year(), int(t.Month()), weekOfMonth(t), t.Day()}
		days[key] = append(days[key], order)
	}

	type monthKey struct{ year, month int }
	months := map[monthKey]map[int][]DayBucket{}
	for key, dayOrders := range days {
		sort.Slice(dayOrders, func(i, j int) bool {
			return dayOrders[i].LastUpdated.After(dayOrders[j].LastUpdated)
		})
		var total float64
		for _, order := range dayOrders {
			total += order.Total
		}
		bucket := DayBucket{
			Label:  spanishDate(dayOrders[0].LastUpdated),
			Total:  total,
			Orders: dayOrders,
		}
		mk := monthKey{key.year, key.month}
		if months[mk] == nil {
			months[mk] = map[int][]DayBucket{}
		}
		months[mk][key.week] = append(months[mk][key.week], bucket)
	}

	result := make([]MonthBucket, 0, len(months))
	for mk, weeks := range months {
		month := MonthBucket{
			Year:  mk.year,
			Month: mk.month,
			Label: spanishMonths[mk.month-1],
		}
		for weekNum, dayBuckets := range weeks {
			// Days sorted by their most recent order, newest first.
			sort.Slice(dayBuckets, func(i, j int) bool {
				return dayBuckets[i].Orders[0].LastUpdated.After(dayBuckets[j].Orders[0].LastUpdated)
			})
			week := WeekBucket{
				Week:  weekNum,
				Label: fmt.Sprintf("Semana %d", weekNum),
				Days:  dayBuckets,
			}
			for _, day := range dayBuckets {
				week.Total += day.Total
			}
			month.Total += week.Total
			month.Weeks = append(month.Weeks, week)
		}
		sort.Slice(month.Weeks, func(i, j int) bool {
			return month.Weeks[i].Week > month.Weeks[j].Week
		})
		result = append(result, month)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year > result[j].Year
		}
		return result[i].Month > result[j].Month
	})
	return result, nil
}

// ClearArchived deletes the entire sales archive.
func (s *ReportStore) ClearArchived(origin string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.Order{}).Where("archived = ?", true).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Order{}).Error
	})
	if err != nil {
		s.log.Error("failed to clear archive", zap.Error(err))
		return err
	}
	s.bus.Publish(events.Event{Key: events.KeyArchivedOrders, Origin: origin})
	return nil
}

// ClearArchivedMonth deletes archived orders from one year+month, keyed
// "YYYY-M" with a 1-based month. Orders with a zero timestamp are kept:
// a malformed record must never be silently swept away with a month.
func (s *ReportStore) ClearArchivedMonth(key string, origin string) (int64, error) {
	parts := strings.SplitN(key, "-", 2)
	if len(parts) != 2 {
		return 0, ErrBadMonthKey
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, ErrBadMonthKey
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, ErrBadMonthKey
	}

	var archived []models.Order
	if err := s.db.Where("archived = ?", true).Find(&archived).Error; err != nil {
		return 0, err
	}

	var ids []string
	for _, order := range archived {
		t := order.LastUpdated
		if t.IsZero() {
			continue
		}
		if t.Year() == year && int(t.Month()) == month {
			ids = append(ids, order.ID)
		}
	}
	if len(ids) == 0 {
		return 0, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id IN ?", ids).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Where("id IN ?", ids).Delete(&models.Order{}).Error
	})
	if err != nil {
		s.log.Error("failed to clear archived month", zap.String("month", key), zap.Error(err))
		return 0, err
	}
	s.bus.Publish(events.Event{Key: events.KeyArchivedOrders, Origin: origin})
	return int64(len(ids)), nil
}

// startOfWeek returns the Monday midnight at or before t.
func startOfWeek(t time.Time) time.Time {
	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	return localMidnight(t).AddDate(0, 0, -daysSinceMonday)
}

// weekOfMonth numbers the weeks of a month starting at 1, with weeks
// beginning on Monday.
func weekOfMonth(t time.Time) int {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	offset := (int(first.Weekday()) + 6) % 7
	return (t.Day()+offset-1)/7 + 1
}

// spanishDate renders "lunes, 27 de mayo" the way the report screen shows days.
func spanishDate(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s",
		spanishWeekdays[int(t.Weekday())], t.Day(), spanishMonths[int(t.Month())-1])
}
