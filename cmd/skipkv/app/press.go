package app

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"Skipkv/cmd/skipkv/app/options"
	"Skipkv/pkg/kvindex"
	"Skipkv/pkg/util/app"
	"Skipkv/pkg/util/random"
	"Skipkv/pkg/util/signal"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"k8s.io/klog/v2"
)

const pressValue = "aa"

// how often a worker looks at the stop channel
const stopCheckInterval = 1024

type pressOptions struct {
	count   int
	writers int
	readers int
	mixed   bool
}

func (p *pressOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&p.count, "count", p.count, "Operations per phase; keys are drawn from [0, count)")
	fs.IntVar(&p.writers, "writers", p.writers, "Concurrent writers")
	fs.IntVar(&p.readers, "readers", p.readers, "Concurrent readers")
	fs.BoolVar(&p.mixed, "mixed", p.mixed, "Add a phase running writers and readers at the same time")
}

func (p *pressOptions) validate() error {
	var errs []error
	if p.count <= 0 {
		errs = append(errs, fmt.Errorf("--count must be positive, got %d", p.count))
	}
	if p.writers <= 0 {
		errs = append(errs, fmt.Errorf("--writers must be positive, got %d", p.writers))
	}
	if p.readers <= 0 {
		errs = append(errs, fmt.Errorf("--readers must be positive, got %d", p.readers))
	}
	return errors.Join(errs...)
}

func newPressCommand(o *options.Options) *app.Command {
	po := &pressOptions{count: 100000, writers: 1, readers: 1}
	return app.NewCommand("press", "Measure insert and search throughput on an in-memory index.",
		app.WithCommandArgs(cobra.NoArgs),
		app.WithCommandOptions(po),
		app.WithCommandRunFunc(func(out io.Writer, args []string) error {
			if err := po.validate(); err != nil {
				return err
			}
			return runPress(out, o.GetIndexOpts(), po, signal.SetupSignalHandler())
		}),
	)
}

type phaseResult struct {
	name    string
	workers int
	ops     int
	errs    int
	elapsed time.Duration
}

func (r phaseResult) row() []string {
	rate := "N/A"
	if r.elapsed > 0 {
		rate = fmt.Sprintf("%.2f", float64(r.ops)/r.elapsed.Seconds())
	}
	return []string{
		r.name,
		strconv.Itoa(r.workers),
		strconv.Itoa(r.ops),
		strconv.Itoa(r.errs),
		fmt.Sprintf("%.3f", float64(r.elapsed.Microseconds())/1000),
		rate,
	}
}

// opFunc performs one operation and reports whether it failed.
type opFunc func(rnd *random.Random) bool

type press struct {
	db    *kvindex.Index
	count int
	seed  uint32
	stop  <-chan struct{}
}

func (p *press) key(rnd *random.Random) string {
	return strconv.Itoa(int(rnd.Uniform(p.count)))
}

func (p *press) insert(rnd *random.Random) bool {
	_, err := p.db.Insert(p.key(rnd), pressValue)
	return err != nil
}

func (p *press) search(rnd *random.Random) bool {
	_, _ = p.db.Search(p.key(rnd))
	return false
}

func (p *press) stopped() bool {
	select {
	case <-p.stop:
		return true
	default:
		return false
	}
}

// spawn starts workers goroutines that share count operations between them.
// Worker seeds are offset by base so phases draw different keys.
func (p *press) spawn(wg *sync.WaitGroup, workers int, base uint32, op opFunc, ops, errs *int, mu *sync.Mutex) {
	share := p.count / workers
	for w := 0; w < workers; w++ {
		n := share
		if w == 0 {
			n += p.count % workers
		}
		rnd := random.New(p.seed + base + uint32(w))
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			done, failed := 0, 0
			for ; done < n; done++ {
				if done%stopCheckInterval == 0 && p.stopped() {
					break
				}
				if op(rnd) {
					failed++
				}
			}
			mu.Lock()
			*ops += done
			*errs += failed
			mu.Unlock()
		}(n)
	}
}

type phaseWorkers struct {
	workers int
	op      opFunc
}

func (p *press) run(name string, base uint32, phases ...phaseWorkers) phaseResult {
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	res := phaseResult{name: name}
	start := time.Now()
	for i, ph := range phases {
		res.workers += ph.workers
		p.spawn(&wg, ph.workers, base+uint32(i)*1000, ph.op, &res.ops, &res.errs, &mu)
	}
	wg.Wait()
	res.elapsed = time.Since(start)
	klog.V(2).Infof("press phase %s: %d ops, %d errors in %v", name, res.ops, res.errs, res.elapsed)
	return res
}

func runPress(out io.Writer, opts *kvindex.Options, po *pressOptions, stop <-chan struct{}) error {
	db, err := kvindex.New(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	seed := opts.Seed
	if seed == 0 {
		seed = uint32(time.Now().UnixNano())
	}
	p := &press{db: db, count: po.count, seed: seed, stop: stop}

	results := []phaseResult{
		p.run("insert", 1, phaseWorkers{po.writers, p.insert}),
	}
	if !p.stopped() {
		results = append(results, p.run("search", 100, phaseWorkers{po.readers, p.search}))
	}
	if po.mixed && !p.stopped() {
		results = append(results, p.run("mixed", 200,
			phaseWorkers{po.writers, p.insert},
			phaseWorkers{po.readers, p.search},
		))
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, r.row())
	}
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Phase", "Workers", "Ops", "Errors", "Elapsed(ms)", "Ops/s"})
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.Render()

	fmt.Fprintf(out, "size: %d height: %d\n", db.Size(), db.Height())
	if p.stopped() {
		return errors.New("interrupted")
	}
	return nil
}
