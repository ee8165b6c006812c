package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"queracli/lib/restyutil"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	report_resty_request  = "resty.request"
	report_resty_response = "resty.response"
)

var tracer = otel.Tracer("quera/http")
var meter = otel.Meter("quera/http")
var requestCounter, _ = meter.Int64Counter(
	"quera.http.requests",
	metric.WithDescription("HTTP requests made to the remote platform."),
)

// request ids are unique across every instrumented client of the process,
// so dumped messages of separate flows never overwrite each other
var requestIds uint64

type instrumentResty struct {
	tel    API
	output restyutil.InstrumentOutput
}

// InstrumentResty reports every request made by client to tel and opens a
// span for it. `output` may be nil, otherwise every complete request/response
// message is written to it.
func InstrumentResty(client *resty.Client, tel API, output restyutil.InstrumentOutput) {
	i := instrumentResty{tel: tel, output: output}

	client.OnBeforeRequest(i.onBeforeRequest)
	client.OnAfterResponse(i.onAfterResponse)
	client.OnError(i.onError)
}

type reqCtxKeyType int

var reqCtxKey reqCtxKeyType

type reqCtx struct {
	id        uint64
	startTime time.Time
}

func (i instrumentResty) onBeforeRequest(_ *resty.Client, req *resty.Request) error {
	ctx, _ := tracer.Start(req.Context(), fmt.Sprintf("http %s", req.Method))

	id := atomic.AddUint64(&requestIds, 1)
	ctx = context.WithValue(ctx, reqCtxKey, reqCtx{
		id:        id,
		startTime: time.Now(),
	})
	i.tel.ReportDebug(report_resty_request, id, req.Method, req.URL)

	req.SetContext(ctx)
	return nil
}

func (i instrumentResty) onAfterResponse(_ *resty.Client, res *resty.Response) error {
	ctx := res.Request.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()

	rc, ok := ctx.Value(reqCtxKey).(reqCtx)
	if !ok {
		return nil
	}
	duration := time.Since(rc.startTime)

	i.tel.ReportDebug(
		report_resty_response,
		rc.id,
		duration.String(),
		res.Status(),
	)
	requestCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.request.method", res.Request.Method),
		attribute.Int("http.response.status_code", res.StatusCode()),
	))
	span.SetAttributes(
		attribute.String("http.request.method", res.Request.Method),
		attribute.String("url.full", res.Request.URL),
		attribute.Int("http.response.status_code", res.StatusCode()),
	)

	if i.output != nil {
		i.output.Write(strconv.FormatUint(rc.id, 10), restyutil.FormatMessage(res))
	}
	return nil
}

func (i instrumentResty) onError(req *resty.Request, err error) {
	ctx := req.Context()
	span := trace.SpanFromContext(ctx)
	defer span.End()
	span.RecordError(err)
	span.SetStatus(codes.Error, "request failed")

	var duration time.Duration
	rc, ok := ctx.Value(reqCtxKey).(reqCtx)
	if ok {
		duration = time.Since(rc.startTime)
	}

	i.tel.ReportWarning(
		report_resty_response,
		err,
		req.Method,
		req.URL,
		duration,
	)
}
