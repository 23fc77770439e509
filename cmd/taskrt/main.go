package main

import (
	"flag"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/task-runtime/config"
	"github.com/wippyai/task-runtime/runtime"
	"github.com/wippyai/task-runtime/typedesc"
	"github.com/wippyai/task-runtime/upcall"
	"github.com/wippyai/task-runtime/vec"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to TOML config file")
		tasks      = flag.Int("tasks", 8, "Number of concurrent tasks")
		ops        = flag.Int("ops", 10000, "Operations per task")
		verbose    = flag.Bool("v", false, "Verbose upcall logging")
	)
	flag.Parse()

	if err := run(*configPath, *tasks, *ops, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func run(configPath string, tasks, ops int, verbose bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	logger, err := cfg.Logger()
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()
	upcall.SetLogger(logger)

	sched := runtime.NewScheduler(cfg, runtime.WithLogger(logger))
	defer sched.Close()

	fmt.Println(titleStyle.Render("task runtime workload"))

	start := time.Now()
	var wg sync.WaitGroup
	var leaked sync.Map
	for i := 0; i < tasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task := sched.Spawn()
			defer task.Destroy()
			workload(task, ops)
			if n := task.LiveAllocs(); n > 0 {
				leaked.Store(task.ID(), n)
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	leaks := 0
	leaked.Range(func(id, n any) bool {
		fmt.Println(errorStyle.Render(
			fmt.Sprintf("task %d leaked %d allocations", id, n)))
		leaks++
		return true
	})

	row := func(label, value string) {
		fmt.Printf("%s %s\n",
			labelStyle.Render(fmt.Sprintf("%-22s", label)),
			valueStyle.Render(value))
	}
	row("Tasks", fmt.Sprintf("%d", tasks))
	row("Ops per task", fmt.Sprintf("%d", ops))
	row("Elapsed", elapsed.String())
	row("Interned descriptors", fmt.Sprintf("%d", sched.CrateCache().DescCount()))
	row("Interned dicts", fmt.Sprintf("%d", sched.CrateCache().DictCount()))
	row("Exchange live objects", fmt.Sprintf("%d", sched.Kernel().LiveObjects()))
	row("Shared descs live", fmt.Sprintf("%d", sched.Kernel().DescLive()))

	if leaks > 0 {
		return fmt.Errorf("%d tasks leaked allocations", leaks)
	}
	return nil
}

// workload drives a mixed allocation, descriptor, vector and dynamic-stack
// sequence through the upcall surface, the way compiled task code would.
func workload(task *runtime.Task, ops int) {
	elemTD := upcall.GetTypeDesc(task, 8, 8, nil, 0)
	pairTD := upcall.GetTypeDesc(task, 16, 8, []*typedesc.TypeDesc{elemTD, elemTD}, 0)

	vecRef := upcall.Malloc(task, elemTD.Size, elemTD, "vec-handle")
	if err := vec.New(task.Heap(), vecRef, 32); err != nil {
		task.Kernel().Fatalf("workload", "vec init: %v", err)
	}

	var live []uint32
	for i := 0; i < ops; i++ {
		switch i % 5 {
		case 0:
			live = append(live, upcall.Malloc(task, pairTD.Size, pairTD, "workload"))
		case 1:
			elem := upcall.Malloc(task, elemTD.Size, elemTD, "elem")
			if err := task.Heap().WriteU64(elem, uint64(i)); err != nil {
				task.Kernel().Fatalf("workload", "%v", err)
			}
			upcall.VecPush(task, vecRef, elemTD, elem)
			upcall.Free(task, elem, false)
		case 2:
			m := upcall.DynastackMark(task)
			upcall.DynastackAlloc(task, 64)
			upcall.DynastackAllocTyped(task, 16, pairTD)
			upcall.DynastackFree(task, m)
		case 3:
			shared := upcall.CreateSharedTypeDesc(task, pairTD)
			upcall.FreeSharedTypeDesc(task, shared)
		case 4:
			upcall.InternDict(task, []uintptr{uintptr(i % 16), 2, 3})
		}
	}

	for _, ptr := range live {
		upcall.Free(task, ptr, false)
	}
	if vptr, err := task.Heap().ReadU32(vecRef); err == nil && vptr != 0 {
		task.Heap().Free(vptr)
	}
	upcall.Free(task, vecRef, false)
}
