package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"web3_annotate/internal/domain"
	"web3_annotate/internal/repository"
	"web3_annotate/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func newAddress() string {
	return fmt.Sprintf("wallet-%d", time.Now().UnixNano())
}

func createUser(t *testing.T, db *pgxpool.Pool) int64 {
	t.Helper()
	id, err := repository.NewUserRepository(db).Resolve(context.Background(), newAddress())
	if err != nil {
		t.Fatalf("resolve user: %v", err)
	}
	return id
}

func createTask(t *testing.T, db *pgxpool.Pool, ownerID int64, title string, amountMajor int64, imageURLs []string) int64 {
	t.Helper()
	amount, err := domain.ToMinorUnits(amountMajor)
	if err != nil {
		t.Fatalf("convert amount: %v", err)
	}
	id, err := repository.NewTaskRepository(db).CreateWithOptions(context.Background(), &domain.Task{
		OwnerID:   ownerID,
		Title:     title,
		Amount:    amount,
		Signature: "sig",
	}, imageURLs)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return id
}

func TestUserRepository_Resolve_ConcurrentSameAddress(t *testing.T) {
	db := connect(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()
	address := newAddress()

	const n = 8
	ids := make([]int64, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = repo.Resolve(ctx, address)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("resolve %d: %v", i, errs[i])
		}
		if ids[i] != ids[0] {
			t.Fatalf("caller %d got id %d; caller 0 got %d", i, ids[i], ids[0])
		}
	}

	var count int64
	if err := db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE address = $1`, address).Scan(&count); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly 1 user row for address, got %d", count)
	}
}

func TestTaskRepository_CreateReturnsFullOptionSet(t *testing.T) {
	db := connect(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	ownerID := createUser(t, db)
	taskID := createTask(t, db, ownerID, "Pick the cat", 5, []string{"a.jpg", "b.jpg"})

	task, err := repo.GetForOwner(ctx, taskID, ownerID)
	if err != nil {
		t.Fatalf("get for owner: %v", err)
	}
	if task.Amount != 500 {
		t.Fatalf("amount = %d minor units; want 500", task.Amount)
	}
	if task.Title != "Pick the cat" {
		t.Fatalf("title = %q", task.Title)
	}

	options, err := repo.ListOptions(ctx, taskID)
	if err != nil {
		t.Fatalf("list options: %v", err)
	}
	if len(options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(options))
	}
	if options[0].ImageURL != "a.jpg" || options[1].ImageURL != "b.jpg" {
		t.Fatalf("option set mismatch: %+v", options)
	}
}

func TestTaskRepository_RejectsTooFewOptions(t *testing.T) {
	db := connect(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	ownerID := createUser(t, db)

	tasksBefore, optionsBefore, err := repo.CountRows(ctx)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}

	_, err = repo.CreateWithOptions(ctx, &domain.Task{
		OwnerID:   ownerID,
		Title:     "one option",
		Amount:    100,
		Signature: "sig",
	}, []string{"only.jpg"})
	if !errors.Is(err, repository.ErrTooFewOptions) {
		t.Fatalf("expected ErrTooFewOptions, got %v", err)
	}

	tasksAfter, optionsAfter, err := repo.CountRows(ctx)
	if err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if tasksAfter != tasksBefore || optionsAfter != optionsBefore {
		t.Fatalf("rejected create left rows behind: tasks %d->%d options %d->%d",
			tasksBefore, tasksAfter, optionsBefore, optionsAfter)
	}
}

func TestTaskRepository_DenialIndistinguishable(t *testing.T) {
	db := connect(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	ownerID := createUser(t, db)
	strangerID := createUser(t, db)
	taskID := createTask(t, db, ownerID, "private", 1, []string{"a.jpg", "b.jpg"})

	_, errForeign := repo.GetForOwner(ctx, taskID, strangerID)
	_, errMissing := repo.GetForOwner(ctx, taskID+1000000, strangerID)

	if !errors.Is(errForeign, repository.ErrAccessDenied) {
		t.Fatalf("foreign task: expected ErrAccessDenied, got %v", errForeign)
	}
	if !errors.Is(errMissing, repository.ErrAccessDenied) {
		t.Fatalf("missing task: expected ErrAccessDenied, got %v", errMissing)
	}
	// same error value: a non-owner cannot learn whether the task exists
	if errForeign.Error() != errMissing.Error() {
		t.Fatalf("denials differ: %q vs %q", errForeign, errMissing)
	}
}

func TestTaskRepository_GetForOwnerIdempotent(t *testing.T) {
	db := connect(t)
	repo := repository.NewTaskRepository(db)
	ctx := context.Background()

	ownerID := createUser(t, db)
	taskID := createTask(t, db, ownerID, "stable", 2, []string{"a.jpg", "b.jpg"})

	first, err := repo.GetForOwner(ctx, taskID, ownerID)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := repo.GetForOwner(ctx, taskID, ownerID)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if *first != *second {
		t.Fatalf("reads differ: %+v vs %+v", first, second)
	}
}

func TestSubmissionRepository_CrossTaskRejected(t *testing.T) {
	db := connect(t)
	taskRepo := repository.NewTaskRepository(db)
	subRepo := repository.NewSubmissionRepository(db)
	ctx := context.Background()

	ownerID := createUser(t, db)
	workerID := createUser(t, db)
	taskA := createTask(t, db, ownerID, "task a", 1, []string{"a1.jpg", "a2.jpg"})
	taskB := createTask(t, db, ownerID, "task b", 1, []string{"b1.jpg", "b2.jpg"})

	optionsB, err := taskRepo.ListOptions(ctx, taskB)
	if err != nil {
		t.Fatalf("list options: %v", err)
	}

	// option of task B submitted against task A
	err = subRepo.Create(ctx, &domain.Submission{
		TaskID:   taskA,
		OptionID: optionsB[0].ID,
		WorkerID: workerID,
	})
	if !errors.Is(err, repository.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption, got %v", err)
	}

	// nonexistent option
	err = subRepo.Create(ctx, &domain.Submission{
		TaskID:   taskA,
		OptionID: 99999999,
		WorkerID: workerID,
	})
	if !errors.Is(err, repository.ErrInvalidOption) {
		t.Fatalf("expected ErrInvalidOption for missing option, got %v", err)
	}
}

func TestAggregation_EndToEnd(t *testing.T) {
	db := connect(t)
	taskRepo := repository.NewTaskRepository(db)
	subRepo := repository.NewSubmissionRepository(db)
	agg := service.NewAggregationService(db)
	ctx := context.Background()

	ownerID := createUser(t, db)
	workerID := createUser(t, db)
	taskID := createTask(t, db, ownerID, "Pick the cat", 5, []string{"a.jpg", "b.jpg"})

	options, err := taskRepo.ListOptions(ctx, taskID)
	if err != nil {
		t.Fatalf("list options: %v", err)
	}
	optionA, optionB := options[0].ID, options[1].ID

	for i := 0; i < 3; i++ {
		if err := subRepo.Create(ctx, &domain.Submission{TaskID: taskID, OptionID: optionA, WorkerID: workerID}); err != nil {
			t.Fatalf("submit a: %v", err)
		}
	}
	if err := subRepo.Create(ctx, &domain.Submission{TaskID: taskID, OptionID: optionB, WorkerID: workerID}); err != nil {
		t.Fatalf("submit b: %v", err)
	}

	task, result, err := agg.ResultsForOwner(ctx, taskID, ownerID)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if task.Amount != 500 {
		t.Fatalf("amount = %d minor units; want 500", task.Amount)
	}
	if len(result) != 2 {
		t.Fatalf("result key set = %d entries; want 2", len(result))
	}
	if result[optionA].Count != 3 || result[optionA].Option.ImageURL != "a.jpg" {
		t.Fatalf("option a entry = %+v; want count 3, a.jpg", result[optionA])
	}
	if result[optionB].Count != 1 || result[optionB].Option.ImageURL != "b.jpg" {
		t.Fatalf("option b entry = %+v; want count 1, b.jpg", result[optionB])
	}

	// non-owner must not read results
	strangerID := createUser(t, db)
	if _, _, err := agg.ResultsForOwner(ctx, taskID, strangerID); !errors.Is(err, repository.ErrAccessDenied) {
		t.Fatalf("expected ErrAccessDenied for stranger, got %v", err)
	}
}
