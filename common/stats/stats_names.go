package stats

/*
This file defines all the metrics being collected.   As new metrics are added please follow this pattern.
*/

const (
	/************************* Scheduler engine metrics **************************/
	/*
		number of processes admitted by S commands
	*/
	SchedAdmittedCounter = "admittedCounter"

	/*
		number of processes that consumed their full run time and were retired
	*/
	SchedCompletedCounter = "completedCounter"

	/*
		number of well formed commands the engine refused (typed errors)
	*/
	SchedCommandErrCounter = "commandErrCounter"

	/*
		number of times a process was moved into the running slot
	*/
	SchedDispatchCounter = "dispatchCounter"

	/*
		number of quantum expirations that sent the running process back to ready
	*/
	SchedPreemptCounter = "preemptCounter"

	/*
		number of B commands applied
	*/
	SchedBlockCounter = "blockCounter"

	/*
		number of U commands applied
	*/
	SchedUnblockCounter = "unblockCounter"

	/*
		number of ticks requested while nothing could run
	*/
	SchedIdleTickCounter = "idleTickCounter"

	/*
		the number of processes waiting in the ready bank
	*/
	SchedReadyGauge = "readyGauge"

	/*
		the number of processes waiting across all blocked banks
	*/
	SchedBlockedGauge = "blockedGauge"

	/*
		the engine's logical time
	*/
	SchedTimeGauge = "timeGauge"

	/*
		average turnaround of completed processes
	*/
	SchedAvgTurnaroundGauge = "avgTurnaroundGauge"

	/*
		distribution of turnaround times (ticks) of completed processes
	*/
	SchedTurnaroundHistogram = "turnaroundTicks"

	/*
		wall clock time to apply one command
	*/
	SchedCommandLatency_ms = "commandLatency_ms"

	/************************* Commander metrics **************************/
	/*
		number of input lines read by the producer (blank lines excluded)
	*/
	CommanderLinesCounter = "linesCounter"

	/*
		number of input lines rejected by the producer side validator
	*/
	CommanderRejectedCounter = "rejectedLinesCounter"

	/*
		number of commands delivered to the engine
	*/
	CommanderDeliveredCounter = "deliveredCounter"
)
