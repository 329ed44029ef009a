// Package db is the typed marketplace client. Every model has a delegate on
// Client (client.User, client.Assignment, ...) whose operations take typed
// inputs and return model structs:
//
//	client, err := db.Open(ctx, os.Getenv("DATABASE_URL"))
//	if err != nil {
//	    return err
//	}
//	defer client.Disconnect()
//
//	open, err := client.Assignment.FindMany(ctx, db.AssignmentFindManyArgs{
//	    Where:   &db.AssignmentWhereInput{Status: &db.AssignmentStatusFilter{Equals: db.Ptr(db.AssignmentStatusOpen)}},
//	    OrderBy: []db.AssignmentOrderByInput{{Field: db.AssignmentFieldDeadline, Order: db.SortOrderAsc}},
//	    Include: &db.AssignmentInclude{Poster: &db.UserIncludeArgs{}},
//	})
package db

import (
	"context"
	"time"

	"github.com/carlosnayan/gigboard/builder"
	"github.com/carlosnayan/gigboard/internal/cache"
	"github.com/carlosnayan/gigboard/internal/config"
	contextutil "github.com/carlosnayan/gigboard/internal/context"
	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/logger"
	"github.com/carlosnayan/gigboard/internal/migrations"
	"github.com/carlosnayan/gigboard/internal/query"
	"github.com/carlosnayan/gigboard/raw"
)

// Client is the entry point to the marketplace tables. A Client handed to
// a Transaction callback runs every operation inside that transaction.
type Client struct {
	session *builder.Session
	db      driver.DB
	store   cache.Store
	cache   *recordCache

	User       *UserDelegate
	Assignment *AssignmentDelegate
	Bid        *BidDelegate
	Submission *SubmissionDelegate
	Review     *ReviewDelegate
	Message    *MessageDelegate
	Payment    *PaymentDelegate
	Dispute    *DisputeDelegate
}

type options struct {
	provider string
	dialect  dialect.Dialect
	logger   *logger.Logger
	store    cache.Store
	ttl      time.Duration
	detector *query.N1Detector
	pool     *driver.PoolConfig
}

// Option configures a Client.
type Option func(*options)

// WithProvider selects the SQL dialect by provider name: postgresql, mysql
// or sqlite. The default is postgresql.
func WithProvider(provider string) Option {
	return func(o *options) { o.provider = provider }
}

// WithDialect sets the dialect directly.
func WithDialect(d dialect.Dialect) Option {
	return func(o *options) { o.dialect = d }
}

// WithLogger logs the client's statements to l instead of the default logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithCache serves User.FindUnique from store. A zero ttl uses the store's
// default. Disconnect closes the store.
func WithCache(store cache.Store, ttl time.Duration) Option {
	return func(o *options) {
		o.store = store
		o.ttl = ttl
	}
}

// WithN1Detector reports every SELECT to d.
func WithN1Detector(d *query.N1Detector) Option {
	return func(o *options) { o.detector = d }
}

// WithPoolConfig sizes the pgx pool opened by Open for PostgreSQL URLs.
func WithPoolConfig(c *driver.PoolConfig) Option {
	return func(o *options) { o.pool = c }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient builds a client over an open connection.
func NewClient(conn driver.DB, opts ...Option) *Client {
	o := collect(opts)
	d := o.dialect
	if d == nil {
		d = dialect.GetDialect(o.provider)
	}
	s := builder.NewSession(conn, d, Schema)
	if o.logger != nil {
		s = s.WithLogger(o.logger)
	}
	if o.detector != nil {
		s = s.WithDetector(o.detector)
	}
	var rc *recordCache
	if o.store != nil {
		rc = &recordCache{store: o.store, ttl: o.ttl}
	}
	c := newClient(s, rc)
	c.db = conn
	c.store = o.store
	return c
}

func newClient(s *builder.Session, rc *recordCache) *Client {
	return &Client{
		session:    s,
		cache:      rc,
		User:       &UserDelegate{table: builder.NewTable[User](s, "User"), cache: rc},
		Assignment: &AssignmentDelegate{table: builder.NewTable[Assignment](s, "Assignment")},
		Bid:        &BidDelegate{table: builder.NewTable[Bid](s, "Bid")},
		Submission: &SubmissionDelegate{table: builder.NewTable[Submission](s, "Submission")},
		Review:     &ReviewDelegate{table: builder.NewTable[Review](s, "Review")},
		Message:    &MessageDelegate{table: builder.NewTable[Message](s, "Message")},
		Payment:    &PaymentDelegate{table: builder.NewTable[Payment](s, "Payment")},
		Dispute:    &DisputeDelegate{table: builder.NewTable[Dispute](s, "Dispute")},
	}
}

// Open connects to url: a pgx pool for PostgreSQL, database/sql for MySQL
// and SQLite. The provider comes from the URL scheme unless WithProvider
// is given. The MySQL and SQLite drivers must be registered by the caller.
func Open(ctx context.Context, url string, opts ...Option) (*Client, error) {
	o := collect(opts)
	provider := o.provider
	if provider == "" {
		provider = dialect.DetectProvider(url)
	}
	conn, err := connect(ctx, provider, url, o.pool)
	if err != nil {
		return nil, err
	}
	return NewClient(conn, append([]Option{WithProvider(provider)}, opts...)...), nil
}

func connect(ctx context.Context, provider, url string, pool *driver.PoolConfig) (driver.DB, error) {
	if dialect.GetDialect(provider).Name() == "postgresql" {
		p, err := driver.NewPgxPoolWithConfig(ctx, url, pool)
		if err != nil {
			return nil, errors.MapConnectError(err)
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return nil, errors.MapConnectError(err)
		}
		return driver.NewPgxPool(p), nil
	}
	sqlDB, _, err := migrations.ConnectProvider(ctx, provider, url)
	if err != nil {
		return nil, err
	}
	return driver.NewSQLDB(sqlDB), nil
}

// OpenConfig connects with a loaded prisma.conf: datasource, pool sizing,
// timeouts, log levels and the [cache] section all apply. opts are applied
// after the configuration.
func OpenConfig(ctx context.Context, cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg.Timeouts != nil {
		contextutil.Configure(cfg.Timeouts.Query.Duration, cfg.Timeouts.Transaction.Duration, cfg.Timeouts.Migration.Duration)
	}
	if len(cfg.Log) > 0 {
		logger.SetLogLevels(cfg.Log)
	}

	provider := cfg.GetProvider()
	var conn driver.DB
	if dialect.GetDialect(provider).Name() == "postgresql" {
		var err error
		conn, err = connect(ctx, provider, cfg.GetDatabaseURL(), pgxPoolConfig(cfg.Pool))
		if err != nil {
			return nil, err
		}
	} else {
		sqlDB, _, err := migrations.ConnectConfig(ctx, cfg)
		if err != nil {
			return nil, err
		}
		conn = driver.NewSQLDB(sqlDB)
	}

	base := []Option{WithProvider(provider)}
	store, err := cache.New(ctx, cfg.Cache)
	if err != nil {
		closeDB(conn)
		return nil, errors.Initialization(errors.ErrInitialization, err)
	}
	if store != nil {
		base = append(base, WithCache(store, cfg.Cache.TTL.Duration))
	}
	return NewClient(conn, append(base, opts...)...), nil
}

func pgxPoolConfig(c *config.PoolConfig) *driver.PoolConfig {
	pc := driver.DefaultPoolConfig()
	if c == nil {
		return pc
	}
	if c.MaxConns > 0 {
		pc.MaxConns = c.MaxConns
	}
	if c.MinConns > 0 {
		pc.MinConns = c.MinConns
	}
	if c.MaxConnLifetime.Duration > 0 {
		pc.MaxConnLifetime = c.MaxConnLifetime.Duration
	}
	if c.MaxConnIdleTime.Duration > 0 {
		pc.MaxConnIdleTime = c.MaxConnIdleTime.Duration
	}
	return pc
}

// Disconnect closes the connection pool and the cache. It is a no-op on a
// transaction client.
func (c *Client) Disconnect() error {
	if c.db == nil {
		return nil
	}
	closeDB(c.db)
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

// Ping checks that the database answers.
func (c *Client) Ping(ctx context.Context) error {
	if p, ok := c.db.(driver.Pinger); ok {
		return p.Ping(ctx)
	}
	if c.db == nil {
		return nil
	}
	var one int
	return c.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func closeDB(conn driver.DB) {
	if cl, ok := conn.(driver.Closer); ok {
		cl.Close()
	}
}

// Session exposes the runtime session, for fluent queries across models.
func (c *Client) Session() *builder.Session { return c.session }

// Provider returns the dialect name: postgresql, mysql or sqlite.
func (c *Client) Provider() string { return c.session.Dialect().Name() }

// Raw runs hand written SQL on the client's connection, or inside the
// transaction for a transaction client.
func (c *Client) Raw() *raw.Executor {
	return raw.New(c.session)
}

// InTransaction reports whether c is a transaction client.
func (c *Client) InTransaction() bool { return c.session.InTransaction() }

func (c *Client) withTx(tx *builder.Transaction, w *txWrites) *Client {
	return newClient(tx.Session(), c.cache.inTx(w))
}

// Transaction runs fn with a client bound to a new transaction. The
// transaction commits when fn returns nil and rolls back when fn returns an
// error or panics. Calling Transaction on a transaction client is a P2028
// error.
//
//	err := client.Transaction(ctx, func(ctx context.Context, tx *db.Client) error {
//	    if _, err := tx.Bid.Update(ctx, ...); err != nil {
//	        return err
//	    }
//	    _, err := tx.Assignment.Update(ctx, ...)
//	    return err
//	})
func (c *Client) Transaction(ctx context.Context, fn func(ctx context.Context, tx *Client) error) error {
	w := &txWrites{}
	err := builder.ExecuteTransaction(ctx, c.session, func(ctx context.Context, tx *builder.Transaction) error {
		return fn(ctx, c.withTx(tx, w))
	})
	if err != nil {
		return err
	}
	c.cache.committed(ctx, w)
	return nil
}

// TxOperation is one step of TransactionBatch.
type TxOperation func(ctx context.Context, tx *Client) error

// TransactionBatch runs ops in order inside one transaction. The first
// failing operation rolls back all of them; its error names its index.
func (c *Client) TransactionBatch(ctx context.Context, ops ...TxOperation) error {
	w := &txWrites{}
	fns := make([]builder.TransactionFunc, len(ops))
	for i, op := range ops {
		op := op
		fns[i] = func(ctx context.Context, tx *builder.Transaction) error {
			return op(ctx, c.withTx(tx, w))
		}
	}
	if err := builder.ExecuteSequentialTransactions(ctx, c.session, fns); err != nil {
		return err
	}
	c.cache.committed(ctx, w)
	return nil
}
