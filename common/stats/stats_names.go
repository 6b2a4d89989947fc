package stats

/*
This file defines all the metrics being collected. As new metrics are added
please follow this pattern.
*/

const (
	/****************** Scheduler core stats ***********************/
	// Number of decision cycles the scheduler has run.
	SchedDecideCyclesCounter = "schedDecideCyclesCounter"

	// Time to run one full Decide call (deserialize, ingest, policy, serialize).
	SchedDecideLatency_ms = "schedDecideLatency_ms"

	// Number of jobs started at the head of the queue.
	SchedJobsStartedCounter = "schedJobsStartedCounter"

	// Number of jobs started out of queue order via backfilling.
	SchedJobsBackfilledCounter = "schedJobsBackfilledCounter"

	// Backfills whose allocation was a contiguous run of resource ids.
	SchedContiguousBackfillsCounter = "schedContiguousBackfillsCounter"

	// Backfills that fell back to a non-contiguous allocation.
	SchedNonContiguousBackfillsCounter = "schedNonContiguousBackfillsCounter"

	// Jobs rejected at submission for requesting more resources than the platform has.
	SchedJobsRejectedCounter = "schedJobsRejectedCounter"

	// Completion events for jobs the scheduler was not tracking (ignored).
	SchedUnknownCompletionsCounter = "schedUnknownCompletionsCounter"

	// Events of a kind the scheduler does not recognize (ignored).
	SchedUnknownEventsCounter = "schedUnknownEventsCounter"

	/****************** Platform state gauges **********************/
	// Number of resources in the platform, set at simulation start.
	SchedPlatformSizeGauge = "schedPlatformSizeGauge"

	// Number of resources free at the end of the last decision cycle.
	SchedFreeResourcesGauge = "schedFreeResourcesGauge"

	// Number of jobs waiting in the pending queue.
	SchedPendingJobsGauge = "schedPendingJobsGauge"

	// Number of jobs currently running.
	SchedRunningJobsGauge = "schedRunningJobsGauge"

	/****************** Rpc server stats ***************************/
	// Number of request frames served.
	RpcRequestsCounter = "rpcRequestsCounter"

	// Requests or sessions dropped on a read, handling, or write failure.
	RpcRequestErrorsCounter = "rpcRequestErrorsCounter"
)
