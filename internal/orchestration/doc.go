// Package orchestration runs one range reduction per selected summation
// algorithm concurrently and compares the outcomes. It decouples the
// reducer from presentation via the ProgressReporter and ResultPresenter
// interfaces.
package orchestration
