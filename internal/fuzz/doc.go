
// Package fuzztests houses Go fuzz harnesses for the layout pipeline
// (XML -> spec tree -> interpreter). Its goal is to smoke test robustness and
// guard against panics, hangs and unbalanced output on arbitrary layouts.
//
// Назначение: загружать байты как тело layout, регистрировать его в памяти
// и прогонять Display и Analyze.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/spec, internal/memdb, internal/interp,
// internal/surface.

package fuzztests
