package backlight

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/lumend/lumend/internal/events"
)

const (
	// debounceDelay is the quiet period after the last Set call before the
	// coalesced value is applied to hardware.
	debounceDelay = 50 * time.Millisecond
	// cacheInterval bounds how often a DDC read may spawn a subprocess.
	cacheInterval = 3 * time.Second
	// pollInterval is the sysfs mtime polling cadence for external changes.
	pollInterval = 500 * time.Millisecond
	// primeDelay is the one-shot delay before the initial DDC cache read.
	primeDelay = 100 * time.Millisecond
)

// Config carries the controller's startup parameters. The backend override
// is the only runtime-configurable knob; all timing thresholds are fixed.
type Config struct {
	// ForceBackend skips detection when set: "sysfs", "ddc" or "disabled".
	ForceBackend string
	// SysfsRoot overrides /sys/class/backlight. Tests point it at a tempdir.
	SysfsRoot string
	// Runner overrides subprocess execution. Nil means os/exec.
	Runner Runner

	// Timing overrides for tests; zero means the fixed production value.
	debounceDelay time.Duration
	cacheInterval time.Duration
	pollInterval  time.Duration
	primeDelay    time.Duration
}

// Controller is the brightness facade. It detects a backend once at
// construction, serves cache-aware reads, debounces writes, and publishes
// percentage-change events for every accepted change.
//
// Get and Set are safe to call from any goroutine. A single mutex guards
// the pending-value/timer pair and the cached state; it is never held
// across a subprocess call.
type Controller struct {
	backend Backend
	maxRaw  int

	runner Runner
	sysfs  sysfsDevice
	bus    *events.Bus
	logger *slog.Logger

	mu          sync.Mutex
	lastRaw     int
	lastPercent int
	lastFetch   time.Time // DDC read cache stamp
	lastMtime   time.Time // sysfs watcher high-water mark
	pendingRaw  int
	havePending bool
	debounce    *time.Timer
	callbacks   map[int]func(percent int)
	nextCb      int
	closed      bool

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once

	// Timing knobs, fixed in production and shortened by tests.
	debounceDelay time.Duration
	cacheInterval time.Duration
	pollInterval  time.Duration
	primeDelay    time.Duration
}

// New constructs the controller, runs backend detection, reads the raw
// ceiling and starts the backend-appropriate change watcher. The caller
// owns the instance and passes it to consumers explicitly.
func New(cfg Config, bus *events.Bus, logger *slog.Logger) *Controller {
	runner := cfg.Runner
	if runner == nil {
		runner = execRunner{}
	}
	sysfsRoot := cfg.SysfsRoot
	if sysfsRoot == "" {
		sysfsRoot = defaultSysfsRoot
	}

	detector := &Detector{runner: runner, sysfsRoot: sysfsRoot, logger: logger}

	c := &Controller{
		backend:       detector.Detect(cfg.ForceBackend),
		runner:        runner,
		bus:           bus,
		logger:        logger,
		lastRaw:       Sentinel,
		lastPercent:   Sentinel,
		callbacks:     make(map[int]func(int)),
		stop:          make(chan struct{}),
		done:          make(chan struct{}),
		debounceDelay: cfg.debounceDelay,
		cacheInterval: cfg.cacheInterval,
		pollInterval:  cfg.pollInterval,
		primeDelay:    cfg.primeDelay,
	}
	if c.debounceDelay == 0 {
		c.debounceDelay = debounceDelay
	}
	if c.cacheInterval == 0 {
		c.cacheInterval = cacheInterval
	}
	if c.pollInterval == 0 {
		c.pollInterval = pollInterval
	}
	if c.primeDelay == 0 {
		c.primeDelay = primeDelay
	}
	c.sysfs = sysfsDevice{root: sysfsRoot, name: c.backend.Device}
	c.maxRaw = c.readMaxRaw()

	if bus != nil {
		bus.Publish(events.BackendSelectedEvent{
			Backend:   c.backend.Kind.String(),
			Device:    c.backend.Device,
			Bus:       c.backend.Bus,
			MaxRaw:    c.maxRaw,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}

	switch c.backend.Kind {
	case KindSysfs:
		c.primeSysfsCache()
		go c.pollSysfs()
	case KindDDC:
		go c.primeDDCCache()
	default:
		close(c.done)
	}
	return c
}

// readMaxRaw resolves the raw ceiling once at startup. Any failure falls
// back to 100 so percent math stays usable.
func (c *Controller) readMaxRaw() int {
	switch c.backend.Kind {
	case KindSysfs:
		maxRaw, err := c.sysfs.readMaxBrightness()
		if err != nil || maxRaw <= 0 {
			c.logger.Warn("Failed to read max_brightness, assuming 100", "device", c.backend.Device, "error", err)
			return 100
		}
		return maxRaw
	case KindDDC:
		_, maxRaw, err := queryVCP(c.runner, c.backend.Bus)
		if err != nil || maxRaw <= 0 {
			c.logger.Warn("Failed to query max luminance, assuming 100", "bus", c.backend.Bus, "error", err)
			return 100
		}
		return maxRaw
	default:
		return 100
	}
}

// Backend returns the selected backend. Immutable after construction.
func (c *Controller) Backend() Backend {
	return c.backend
}

// MaxRaw returns the raw brightness ceiling.
func (c *Controller) MaxRaw() int {
	return c.maxRaw
}

// Get returns the current raw brightness, or Sentinel when disabled or
// never readable. Reads are cache-aware: sysfs caches indefinitely (the
// watcher refreshes it), DDC caches for a fixed interval to bound
// subprocess cost.
func (c *Controller) Get() int {
	switch c.backend.Kind {
	case KindSysfs:
		return c.getSysfs()
	case KindDDC:
		return c.getDDC()
	default:
		return Sentinel
	}
}

// GetPercent returns the current brightness as a 0-100 percentage, or
// Sentinel when no reading is available.
func (c *Controller) GetPercent() int {
	raw := c.Get()
	if raw == Sentinel {
		return Sentinel
	}
	return ToPercent(raw, c.maxRaw)
}

func (c *Controller) getSysfs() int {
	c.mu.Lock()
	if c.lastRaw != Sentinel {
		raw := c.lastRaw
		c.mu.Unlock()
		return raw
	}
	c.mu.Unlock()

	raw, err := c.sysfs.readBrightness()
	if err != nil {
		c.logger.Error("Failed to read brightness file", "device", c.backend.Device, "error", err)
		return Sentinel
	}
	c.mu.Lock()
	c.lastRaw = raw
	c.mu.Unlock()
	return raw
}

func (c *Controller) getDDC() int {
	c.mu.Lock()
	if c.lastRaw != Sentinel && time.Since(c.lastFetch) < c.cacheInterval {
		raw := c.lastRaw
		c.mu.Unlock()
		return raw
	}
	cached := c.lastRaw
	c.mu.Unlock()

	current, _, err := queryVCP(c.runner, c.backend.Bus)
	if err != nil {
		c.logger.Error("Failed to query luminance", "bus", c.backend.Bus, "error", err)
		return cached
	}
	c.mu.Lock()
	c.lastRaw = current
	c.lastFetch = time.Now()
	c.mu.Unlock()
	return current
}

// Set requests a brightness change in raw units. The value is clamped to
// [0, MaxRaw]. Requests whose percent delta is below the significance
// threshold are dropped; the rest coalesce through a debounce window with
// last-write-wins semantics, so a slider burst becomes one hardware call.
func (c *Controller) Set(raw int) {
	if c.backend.Kind == KindDisabled {
		return
	}
	raw = ClampRaw(raw, c.maxRaw)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	next := ToPercent(raw, c.maxRaw)
	if c.lastRaw != Sentinel && !Significant(next, ToPercent(c.lastRaw, c.maxRaw)) {
		return
	}

	c.pendingRaw = raw
	c.havePending = true
	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.debounceDelay, c.applyPending)
}

// applyPending fires once per armed debounce timer. It takes the pending
// value under the lock, updates the cache optimistically, notifies
// listeners, then launches the hardware write without waiting for it.
func (c *Controller) applyPending() {
	c.mu.Lock()
	if c.closed || !c.havePending {
		c.debounce = nil
		c.mu.Unlock()
		return
	}
	raw := c.pendingRaw
	c.havePending = false
	c.debounce = nil

	c.lastRaw = raw
	percent := ToPercent(raw, c.maxRaw)
	c.lastPercent = percent
	if c.backend.Kind == KindDDC {
		c.lastFetch = time.Now()
	}
	c.mu.Unlock()

	// UI feedback precedes confirmed hardware application.
	c.notify(percent, events.OriginWrite, raw)
	go c.writeHardware(raw)
}

// writeHardware issues the backend-specific external write. Failures are
// logged and published, never retried; the optimistic cache stands and a
// later read or watcher poll reconciles any divergence it can detect.
func (c *Controller) writeHardware(raw int) {
	var out []byte
	var err error
	switch c.backend.Kind {
	case KindSysfs:
		out, err = c.runner.Run("brightnessctl", "--device", c.backend.Device, "set", strconv.Itoa(raw))
	case KindDDC:
		out, err = c.runner.Run("ddcutil", setVCPArgs(c.backend.Bus, raw)...)
	default:
		return
	}
	if err != nil {
		c.logger.Error("Brightness write failed",
			"backend", c.backend.Kind.String(), "raw", raw, "error", err, "output", string(out))
		if c.bus != nil {
			c.bus.Publish(events.WriteFailedEvent{
				Backend:   c.backend.Kind.String(),
				Raw:       raw,
				Error:     err.Error(),
				Output:    string(out),
				Timestamp: time.Now().Format(time.RFC3339),
			})
		}
	}
}

// OnChange registers a callback invoked with the new percentage on every
// accepted change. Returns an unsubscribe function.
func (c *Controller) OnChange(fn func(percent int)) func() {
	c.mu.Lock()
	id := c.nextCb
	c.nextCb++
	c.callbacks[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.callbacks, id)
		c.mu.Unlock()
	}
}

// notify delivers a percentage change to registered callbacks and the
// event bus. Called outside the controller lock.
func (c *Controller) notify(percent int, origin string, raw int) {
	c.mu.Lock()
	cbs := make([]func(int), 0, len(c.callbacks))
	for _, fn := range c.callbacks {
		cbs = append(cbs, fn)
	}
	c.mu.Unlock()

	for _, fn := range cbs {
		fn(percent)
	}
	if c.bus != nil {
		c.bus.Publish(events.BrightnessChangedEvent{
			Percent:   percent,
			Raw:       raw,
			Backend:   c.backend.Kind.String(),
			Origin:    origin,
			Timestamp: time.Now().Format(time.RFC3339),
		})
	}
}

// Shutdown stops the watcher goroutine and cancels any armed debounce
// timer. Idempotent; no callbacks or subprocess launches happen after it
// returns.
func (c *Controller) Shutdown() {
	c.stopOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.havePending = false
		if c.debounce != nil {
			c.debounce.Stop()
			c.debounce = nil
		}
		c.mu.Unlock()

		close(c.stop)
		if c.backend.Kind != KindDisabled {
			<-c.done
		}
	})
}

// primeSysfsCache seeds the cache and watcher baseline from the device so
// the first external change is detected against a real value.
func (c *Controller) primeSysfsCache() {
	raw, err := c.sysfs.readBrightness()
	if err != nil {
		c.logger.Error("Failed to prime brightness cache", "device", c.backend.Device, "error", err)
		return
	}
	mtime, _ := c.sysfs.modTime()
	c.mu.Lock()
	c.lastRaw = raw
	c.lastPercent = ToPercent(raw, c.maxRaw)
	c.lastMtime = mtime
	c.mu.Unlock()
}

// pollSysfs watches the brightness attribute's mtime to catch changes made
// outside the daemon. Transient errors are logged and polling continues.
func (c *Controller) pollSysfs() {
	defer close(c.done)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.checkSysfsChange()
		}
	}
}

func (c *Controller) checkSysfsChange() {
	mtime, err := c.sysfs.modTime()
	if err != nil {
		c.logger.Debug("Failed to stat brightness file", "error", err)
		return
	}
	c.mu.Lock()
	if !mtime.After(c.lastMtime) {
		c.mu.Unlock()
		return
	}
	c.lastMtime = mtime
	c.mu.Unlock()

	raw, err := c.sysfs.readBrightness()
	if err != nil {
		c.logger.Error("Failed to read brightness file", "error", err)
		return
	}

	c.mu.Lock()
	if raw == c.lastRaw {
		c.mu.Unlock()
		return
	}
	c.lastRaw = raw
	percent := ToPercent(raw, c.maxRaw)
	if !Significant(percent, c.lastPercent) {
		c.mu.Unlock()
		return
	}
	c.lastPercent = percent
	c.mu.Unlock()

	c.notify(percent, events.OriginExternal, raw)
}

// primeDDCCache performs the one-shot delayed read that populates the DDC
// cache after startup. DDC monitors have no local change notification, so
// no continuous polling follows.
func (c *Controller) primeDDCCache() {
	defer close(c.done)
	timer := time.NewTimer(c.primeDelay)
	defer timer.Stop()
	select {
	case <-c.stop:
		return
	case <-timer.C:
		c.Get()
	}
	<-c.stop
}
