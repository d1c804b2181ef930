package doctor

import (
	"context"
	"fmt"

	errwrap "github.com/wpstack/wpstack/internal/errors"
	"github.com/wpstack/wpstack/internal/parse"
	"github.com/wpstack/wpstack/internal/shell"
)

// checkMySQL keeps "client missing" and "server unreachable" apart: one is
// fixed by installing the client, the other by starting the server.
func (e *Engine) checkMySQL(ctx context.Context) (ConnectivityResult, issueLog) {
	var log issueLog
	res := ConnectivityResult{User: e.opts.MySQLUser}

	out, err := e.opts.Runner.Run(ctx, e.opts.MySQLBinary, []string{"--version"}, shell.Options{})
	if err != nil {
		res.Error = ErrMySQLClientNotInstalled
		log.add("MySQL client not installed",
			"Install the MySQL client (for example: brew install mysql-client, apt install mysql-client)")
		return res, log
	}
	if v, ok := parse.ParseVersion(out.Stdout); ok {
		res.ClientVersion = v.String()
	}

	conn, err := e.opts.Prober.Cached(ctx, e.opts.MySQLUser)
	if err != nil {
		res.Detail = errwrap.Message(err)
		if errwrap.HasCode(err, errwrap.CodeClientNotInstalled) {
			res.Error = ErrMySQLClientNotInstalled
			log.add("MySQL client not installed",
				"Install the MySQL client (for example: brew install mysql-client, apt install mysql-client)")
			return res, log
		}
		res.Error = ErrNotAccessible
		log.add(fmt.Sprintf("Cannot connect to MySQL as %s", e.opts.MySQLUser),
			"Start the MySQL server and check mysql.user and mysql.password")
		return res, log
	}

	res.OK = true
	res.Connection = conn
	return res, log
}
