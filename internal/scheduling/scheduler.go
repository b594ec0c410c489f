package scheduling

import (
	"log/slog"
	"time"

	"github.com/fraperfra/TELEMARKETING/internal/config"
	"github.com/fraperfra/TELEMARKETING/internal/model"
)

const (
	DefaultHorizonDays = 14
	DefaultGridStep    = 30 * time.Minute
	DefaultSpacing     = 2 * time.Hour
	DefaultLookback    = 24 * time.Hour
	DefaultSuggestions = 5
)

// Options configure a Scheduler. Zero values fall back to the defaults above.
type Options struct {
	Location *time.Location
	// Days scanned by a single-slot search, counting the reference day.
	HorizonDays int
	GridStep    time.Duration
	// Gap added after each hit in FindSlots. A tunable default, not a contract.
	Spacing time.Duration
	// Appointments starting this long before the reference day are still
	// loaded so that ones running into it are seen.
	Lookback        time.Duration
	DefaultDuration int
	Now             func() time.Time
	Logger          *slog.Logger
}

// OptionsFromConfig maps the scheduler config section onto Options.
func OptionsFromConfig(cfg config.SchedulerConfig) (Options, error) {
	loc, err := cfg.Location()
	if err != nil {
		return Options{}, err
	}
	spacing, err := cfg.SpacingDuration()
	if err != nil {
		return Options{}, err
	}
	lookback, err := cfg.LookbackDuration()
	if err != nil {
		return Options{}, err
	}
	return Options{
		Location:        loc,
		HorizonDays:     cfg.HorizonDays,
		GridStep:        time.Duration(cfg.GridMinutes) * time.Minute,
		Spacing:         spacing,
		Lookback:        lookback,
		DefaultDuration: cfg.DefaultDuration,
	}, nil
}

func (o Options) withDefaults() Options {
	if o.Location == nil {
		o.Location = time.UTC
	}
	if o.HorizonDays <= 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	if o.GridStep <= 0 {
		o.GridStep = DefaultGridStep
	}
	if o.Spacing <= 0 {
		o.Spacing = DefaultSpacing
	}
	if o.Lookback <= 0 {
		o.Lookback = DefaultLookback
	}
	if o.DefaultDuration <= 0 {
		o.DefaultDuration = model.DefaultAppointmentDuration
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// Scheduler finds free slots and books them. It holds only its collaborators
// and immutable options, so one instance may serve concurrent requests; it
// does not coordinate them (the store's overlap guard does).
type Scheduler struct {
	availability AvailabilityStore
	appointments AppointmentStore
	contacts     ContactStore
	resolver     *Resolver
	opts         Options
}

func New(availability AvailabilityStore, appointments AppointmentStore, contacts ContactStore, opts Options) *Scheduler {
	opts = opts.withDefaults()
	return &Scheduler{
		availability: availability,
		appointments: appointments,
		contacts:     contacts,
		resolver:     NewResolver(availability, opts.Location, opts.Logger),
		opts:         opts,
	}
}

// Resolver exposes the availability resolver bound to the scheduler's zone.
func (s *Scheduler) Resolver() *Resolver { return s.resolver }

func (s *Scheduler) Location() *time.Location { return s.opts.Location }
