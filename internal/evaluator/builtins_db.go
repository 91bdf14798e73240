package evaluator

import (
	"database/sql"
	"errors"
	"fmt"
	"lispy/internal/object"
	"log/slog"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

const handlePrefix = "db:"

type dbConn struct {
	driver string
	db     *sql.DB
	tx     *sql.Tx
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

func (c *dbConn) querier() querier {
	if c.tx != nil {
		return c.tx
	}
	return c.db
}

// dbRegistry owns the connections opened by one evaluator, keyed by handle.
type dbRegistry struct {
	conns map[string]*dbConn
}

func newDBRegistry() *dbRegistry {
	return &dbRegistry{conns: map[string]*dbConn{}}
}

func (r *dbRegistry) open(driver, dsn string) (string, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return "", fmt.Errorf("failed to open connection: %w", err)
	}
	if driver == "sqlite3" {
		// every sqlite connection to :memory: is a separate database
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return "", fmt.Errorf("failed to ping database: %w", err)
	}

	handle := handlePrefix + uuid.NewString()
	r.conns[handle] = &dbConn{driver: driver, db: db}
	slog.Debug("database opened",
		slog.String("driver", driver),
		slog.String("handle", handle))
	return handle, nil
}

func (r *dbRegistry) lookup(handle string) (*dbConn, error) {
	c, ok := r.conns[handle]
	if !ok {
		return nil, fmt.Errorf("invalid connection handle '%s'", handle)
	}
	return c, nil
}

func (r *dbRegistry) close(handle string) error {
	c, err := r.lookup(handle)
	if err != nil {
		return err
	}
	delete(r.conns, handle)
	if c.tx != nil {
		c.tx.Rollback()
	}
	slog.Debug("database closed",
		slog.String("driver", c.driver),
		slog.String("handle", handle))
	return c.db.Close()
}

func (r *dbRegistry) closeAll() error {
	var errs []error
	for handle := range r.conns {
		if err := r.close(handle); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *dbRegistry) builtins() []*object.Builtin {
	return []*object.Builtin{
		r.funcOpen(),
		r.funcExec(),
		r.funcQuery(),
		r.funcColumns(),
		r.funcBegin(),
		r.funcCommit(),
		r.funcRollback(),
		r.funcClose(),
	}
}

// funcOpen connects with a registered database/sql driver: sqlite3, mysql or postgres.
func (r *dbRegistry) funcOpen() *object.Builtin {
	return newBuiltin("db-open", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		if err := assertCount("db-open", args, 2); err != nil {
			return err
		}
		if err := assertType("db-open", args, 0, object.STRING_OBJ); err != nil {
			return err
		}
		if err := assertType("db-open", args, 1, object.STRING_OBJ); err != nil {
			return err
		}

		driver := args.Elements[0].(*object.String).Value
		dsn := args.Elements[1].(*object.String).Value
		handle, err := r.open(driver, dsn)
		if err != nil {
			return object.NewError("Function 'db-open' %s", err)
		}
		return &object.String{Value: handle}
	})
}

func (r *dbRegistry) funcExec() *object.Builtin {
	return newBuiltin("db-exec", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		c, query, params, errObj := r.statement("db-exec", args)
		if errObj != nil {
			return errObj
		}

		result, err := c.querier().Exec(query, params...)
		if err != nil {
			return object.NewError("Function 'db-exec' exec failed: %s", err)
		}

		affected, _ := result.RowsAffected()
		lastID, _ := result.LastInsertId()
		return object.NewQExpr(object.NewInteger(affected), object.NewInteger(lastID))
	})
}

func (r *dbRegistry) funcQuery() *object.Builtin {
	return newBuiltin("db-query", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		c, query, params, errObj := r.statement("db-query", args)
		if errObj != nil {
			return errObj
		}

		rows, err := c.querier().Query(query, params...)
		if err != nil {
			return object.NewError("Function 'db-query' query failed: %s", err)
		}
		defer rows.Close()

		result, err := renderRows(rows)
		if err != nil {
			return object.NewError("Function 'db-query' query failed: %s", err)
		}
		return result
	})
}

func (r *dbRegistry) funcColumns() *object.Builtin {
	return newBuiltin("db-columns", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		c, query, params, errObj := r.statement("db-columns", args)
		if errObj != nil {
			return errObj
		}

		rows, err := c.querier().Query(query, params...)
		if err != nil {
			return object.NewError("Function 'db-columns' query failed: %s", err)
		}
		defer rows.Close()

		columns, err := rows.Columns()
		if err != nil {
			return object.NewError("Function 'db-columns' query failed: %s", err)
		}
		names := object.NewQExpr()
		for _, col := range columns {
			names.Append(&object.String{Value: col})
		}
		return names
	})
}

func (r *dbRegistry) funcBegin() *object.Builtin {
	return newBuiltin("db-begin", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		c, handle, errObj := r.handleArg("db-begin", args)
		if errObj != nil {
			return errObj
		}
		if c.tx != nil {
			return object.NewError("Function 'db-begin' transaction already open on '%s'", handle.Value)
		}

		tx, err := c.db.Begin()
		if err != nil {
			return object.NewError("Function 'db-begin' failed to begin transaction: %s", err)
		}
		c.tx = tx
		return handle
	})
}

func (r *dbRegistry) funcCommit() *object.Builtin {
	return newBuiltin("db-commit", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		c, handle, errObj := r.handleArg("db-commit", args)
		if errObj != nil {
			return errObj
		}
		if c.tx == nil {
			return object.NewError("Function 'db-commit' invalid transaction handle '%s'", handle.Value)
		}

		err := c.tx.Commit()
		c.tx = nil
		if err != nil {
			return object.NewError("Function 'db-commit' failed to commit transaction: %s", err)
		}
		return handle
	})
}

func (r *dbRegistry) funcRollback() *object.Builtin {
	return newBuiltin("db-rollback", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		c, handle, errObj := r.handleArg("db-rollback", args)
		if errObj != nil {
			return errObj
		}
		if c.tx == nil {
			return object.NewError("Function 'db-rollback' invalid transaction handle '%s'", handle.Value)
		}

		err := c.tx.Rollback()
		c.tx = nil
		if err != nil {
			return object.NewError("Function 'db-rollback' failed to rollback transaction: %s", err)
		}
		return handle
	})
}

func (r *dbRegistry) funcClose() *object.Builtin {
	return newBuiltin("db-close", func(ctx object.EvaluatorContext, env *object.Environment, args *object.List) object.Object {
		_, handle, errObj := r.handleArg("db-close", args)
		if errObj != nil {
			return errObj
		}
		if err := r.close(handle.Value); err != nil {
			return object.NewError("Function 'db-close' %s", err)
		}
		return object.NewSExpr()
	})
}

func (r *dbRegistry) handleArg(name string, args *object.List) (*dbConn, *object.String, *object.Error) {
	if err := assertCount(name, args, 1); err != nil {
		return nil, nil, err
	}
	if err := assertType(name, args, 0, object.STRING_OBJ); err != nil {
		return nil, nil, err
	}
	handle := args.Elements[0].(*object.String)
	c, err := r.lookup(handle.Value)
	if err != nil {
		return nil, nil, object.NewError("Function '%s' %s", name, err)
	}
	return c, handle, nil
}

// statement unpacks the handle, SQL text and bind parameters shared by the
// statement builtins.
func (r *dbRegistry) statement(name string, args *object.List) (*dbConn, string, []any, *object.Error) {
	if err := assertAtLeast(name, args, 2); err != nil {
		return nil, "", nil, err
	}
	if err := assertType(name, args, 0, object.STRING_OBJ); err != nil {
		return nil, "", nil, err
	}
	if err := assertType(name, args, 1, object.STRING_OBJ); err != nil {
		return nil, "", nil, err
	}

	c, err := r.lookup(args.Elements[0].(*object.String).Value)
	if err != nil {
		return nil, "", nil, object.NewError("Function '%s' %s", name, err)
	}

	params := make([]any, 0, args.Len()-2)
	for i, a := range args.Elements[2:] {
		p, ok := bindValue(a)
		if !ok {
			return nil, "", nil, object.NewError("Function '%s' passed incorrect type for argument %d. Got %s, Expected %s.",
				name, i+2, a.Type(), "Integer, Decimal or String")
		}
		params = append(params, p)
	}
	return c, args.Elements[1].(*object.String).Value, params, nil
}

func bindValue(obj object.Object) (any, bool) {
	switch x := obj.(type) {
	case *object.Integer:
		return x.Value, true
	case *object.Decimal:
		return x.Value, true
	case *object.String:
		return x.Value, true
	}
	return nil, false
}

func renderRows(rows *sql.Rows) (object.Object, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	types, _ := rows.ColumnTypes()

	result := object.NewQExpr()
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := object.NewQExpr()
		for i := range columns {
			var typeName string
			if i < len(types) {
				typeName = types[i].DatabaseTypeName()
			}
			row.Append(mapValue(values[i], typeName))
		}
		result.Append(row)
	}
	return result, rows.Err()
}

func mapValue(v any, dbType string) object.Object {
	if v == nil {
		return object.NewQExpr()
	}
	switch x := v.(type) {
	case int64:
		return object.NewInteger(x)
	case float64:
		return &object.Decimal{Value: x}
	case []byte:
		// numeric columns come back as text from the mysql driver
		switch strings.ToUpper(dbType) {
		case "DECIMAL", "NUMERIC", "FLOAT", "DOUBLE", "INT", "BIGINT", "SMALLINT", "TINYINT", "INTEGER":
			if n, ok := readNumber(string(x)).(object.Number); ok {
				return n
			}
		}
		return &object.String{Value: string(x)}
	case string:
		return &object.String{Value: x}
	case bool:
		return object.NewBoolean(x)
	case time.Time:
		return &object.String{Value: x.Format(time.RFC3339)}
	default:
		return &object.String{Value: fmt.Sprintf("%v", v)}
	}
}
