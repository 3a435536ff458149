/*
package scheduler provides Engine, a single CPU process scheduler using a
multilevel feedback queue.

* Concepts *
Levels:
  The ready bank and every blocked bank have one FIFO lane per priority level.
  Level 0 is served first. The number of levels is len(SchedulerConfig.Quanta).

Quantum:
  The number of ticks a process may hold the running slot during one dispatch.
  Quanta[p] is the budget for a process dispatched at priority p. The budget is
  fixed at dispatch time, a priority change during the dispatch only affects
  the next one.

Running slot:
  Holds at most one pid, the ticks elapsed on the current dispatch, and the
  quantum budget. Empty when nothing is runnable.

* Logic *
Admit:   new record at priority 0. Runs at once if the slot is empty, else joins ready lane 0.
Block:   running process moves one level toward 0 (floor 0) and waits in the
         resource's blocked bank at that level. The next ready process runs.
Unblock: head of the resource's blocked bank runs at once if the slot is
         empty, else joins ready at its current priority. Priority is not restored.
Tick:    if the slot is empty the head of ready is dispatched first; with
         nothing ready the tick is Idle and time does not move.
         Time, elapsed and CPU time advance by one, then
           1. completion: CPU time >= run time retires the process and records
              turnaround = now - start time;
           2. otherwise quantum exhaustion: elapsed >= budget moves the process
              one level up (ceiling len(Quanta)-1) back into ready.
         Either way the next ready process is dispatched.
Compute: arithmetic on the running process's value followed by one Tick.

Every pid is in exactly one place: the running slot, the ready bank, or one
blocked bank. A failed command changes nothing.
*/
package scheduler
